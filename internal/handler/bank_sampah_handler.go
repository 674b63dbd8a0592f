package handler

import (
	"net/http"

	"github.com/SeptianProject/sirasa-sub000/internal/middleware"
	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/service"
	"github.com/SeptianProject/sirasa-sub000/pkg/pagination"
	"github.com/SeptianProject/sirasa-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type BankSampahHandler struct {
	bankService service.BankSampahService
}

func NewBankSampahHandler(bankService service.BankSampahService) *BankSampahHandler {
	return &BankSampahHandler{bankService: bankService}
}

func (h *BankSampahHandler) RegisterRoutes(router *gin.RouterGroup) {
	banks := router.Group("/api/bank-sampah")
	{
		banks.GET("", middleware.RequireAuth(), h.ListBankSampah)
		banks.GET("/:id", middleware.RequireAuth(), h.GetBankSampah)
		banks.POST("", middleware.RequireRole(model.RoleSuperAdmin), h.CreateBankSampah)
		banks.PUT("/:id", middleware.RequireRole(model.RoleSuperAdmin), h.UpdateBankSampah)
		banks.DELETE("/:id", middleware.RequireRole(model.RoleSuperAdmin), h.DeleteBankSampah)
	}
}

// ListBankSampah returns paginated bank sampah with optional search
// @Summary      List bank sampah
// @Tags         bank-sampah
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        search  query  string  false  "Search by name or city"
// @Success      200  {object}  response.PaginatedResponse
// @Router       /api/bank-sampah [get]
func (h *BankSampahHandler) ListBankSampah(c *gin.Context) {
	p := pagination.Parse(c)

	banks, total, err := h.bankService.ListBankSampah(c.Request.Context(), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, banks, p, total))
}

// GetBankSampah returns a single bank sampah
// @Summary      Get bank sampah
// @Tags         bank-sampah
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Bank Sampah ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bank-sampah/{id} [get]
func (h *BankSampahHandler) GetBankSampah(c *gin.Context) {
	bank, err := h.bankService.GetBankSampahByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bank))
}

// CreateBankSampah registers a new bank sampah
// @Summary      Create bank sampah
// @Tags         bank-sampah
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBankSampahRequest  true  "Bank sampah payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bank-sampah [post]
func (h *BankSampahHandler) CreateBankSampah(c *gin.Context) {
	var req service.CreateBankSampahRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bank, err := h.bankService.CreateBankSampah(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, bank))
}

// UpdateBankSampah updates a bank sampah profile
// @Summary      Update bank sampah
// @Tags         bank-sampah
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Bank Sampah ID"
// @Param        payload  body  service.UpdateBankSampahRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bank-sampah/{id} [put]
func (h *BankSampahHandler) UpdateBankSampah(c *gin.Context) {
	var req service.UpdateBankSampahRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bank, err := h.bankService.UpdateBankSampah(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bank))
}

// DeleteBankSampah removes a bank sampah (soft delete)
// @Summary      Delete bank sampah
// @Tags         bank-sampah
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Bank Sampah ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bank-sampah/{id} [delete]
func (h *BankSampahHandler) DeleteBankSampah(c *gin.Context) {
	if err := h.bankService.DeleteBankSampah(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Bank sampah dihapus"}))
}
