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

type VerificationHandler struct {
	verificationService service.VerificationService
}

func NewVerificationHandler(verificationService service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

func (h *VerificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	verifications := router.Group("/api/verifications")
	{
		verifications.POST("", middleware.RequireRole(model.RoleUser), h.CreateRequest)
		verifications.GET("", middleware.RequireRole(model.RoleSuperAdmin), h.ListRequests)
		verifications.PATCH("/:id/approve", middleware.RequireRole(model.RoleSuperAdmin), h.ApproveRequest)
		verifications.PATCH("/:id/reject", middleware.RequireRole(model.RoleSuperAdmin), h.RejectRequest)
	}
}

// CreateRequest files a verification request for the caller. A user can have
// at most one open request at a time.
// @Summary      Request verification
// @Tags         verifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateVerificationRequest  true  "Verification payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response  "Open request already exists"
// @Router       /api/verifications [post]
func (h *VerificationHandler) CreateRequest(c *gin.Context) {
	var req service.CreateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.verificationService.CreateRequest(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// ListRequests returns verification requests, optionally by status
// @Summary      List verification requests
// @Tags         verifications
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "Filter by status: PENDING, APPROVED, REJECTED"
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Success      200  {object}  response.PaginatedResponse
// @Router       /api/verifications [get]
func (h *VerificationHandler) ListRequests(c *gin.Context) {
	p := pagination.Parse(c)

	requests, total, err := h.verificationService.ListRequests(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, requests, p, total))
}

// ApproveRequest approves a PENDING request and escalates the requester to
// VERIFIED_USER.
// @Summary      Approve verification
// @Tags         verifications
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.Response  "Already decided"
// @Router       /api/verifications/{id}/approve [patch]
func (h *VerificationHandler) ApproveRequest(c *gin.Context) {
	request, err := h.verificationService.ApproveRequest(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verifikasi disetujui",
		"data":    request,
	})
}

// RejectRequest rejects a PENDING request with a reason
// @Summary      Reject verification
// @Tags         verifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                             true  "Request ID"
// @Param        payload  body  service.RejectVerificationRequest  true  "Rejection reason"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.Response
// @Router       /api/verifications/{id}/reject [patch]
func (h *VerificationHandler) RejectRequest(c *gin.Context) {
	var req service.RejectVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.verificationService.RejectRequest(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verifikasi ditolak",
		"data":    request,
	})
}
