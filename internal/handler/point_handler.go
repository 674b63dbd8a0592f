package handler

import (
	"net/http"

	"github.com/SeptianProject/sirasa-sub000/internal/middleware"
	"github.com/SeptianProject/sirasa-sub000/internal/service"
	"github.com/SeptianProject/sirasa-sub000/pkg/pagination"
	"github.com/SeptianProject/sirasa-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type PointHandler struct {
	pointService service.PointService
}

func NewPointHandler(pointService service.PointService) *PointHandler {
	return &PointHandler{pointService: pointService}
}

func (h *PointHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Every authenticated principal owns a ledger and may spend against it.
	points := router.Group("/api/points")
	points.Use(middleware.RequireAuth())
	{
		points.GET("", h.GetPoints)
		points.POST("/redeem", h.Redeem)
		points.GET("/redemptions", h.ListRedemptions)
	}
}

// GetPoints returns the caller's current balance together with a page of
// ledger history. The balance is derived from the ledger on every call.
// @Summary      Point balance and history
// @Tags         points
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/points [get]
func (h *PointHandler) GetPoints(c *gin.Context) {
	p := pagination.Parse(c)

	overview, err := h.pointService.GetPoints(c.Request.Context(), c.GetString("userID"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currentPoints": overview.CurrentPoints,
		"data":          overview.Transactions,
		"pagination":    pagination.NewMeta(p, overview.Total),
	})
}

// Redeem exchanges points for one unit of a reward
// @Summary      Redeem a reward
// @Tags         points
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.RedeemRequest  true  "Reward to redeem"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  response.Response  "Insufficient points or out of stock"
// @Failure      404  {object}  response.Response  "Reward not found"
// @Router       /api/points/redeem [post]
func (h *PointHandler) Redeem(c *gin.Context) {
	var req service.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.pointService.Redeem(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Penukaran berhasil",
		"redemption":      result.Redemption,
		"remainingPoints": result.RemainingPoints,
	})
}

// ListRedemptions returns the caller's redemption history
// @Summary      Redemption history
// @Tags         points
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.PaginatedResponse
// @Router       /api/points/redemptions [get]
func (h *PointHandler) ListRedemptions(c *gin.Context) {
	p := pagination.Parse(c)

	redemptions, total, err := h.pointService.ListRedemptions(c.Request.Context(), c.GetString("userID"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, redemptions, p, total))
}
