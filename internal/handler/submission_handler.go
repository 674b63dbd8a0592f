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

type SubmissionHandler struct {
	submissionService service.SubmissionService
}

func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	submissions := router.Group("/api/submissions")
	{
		// Creation requires the verified role; plain USER accounts only list.
		submissions.POST("", middleware.RequireRole(model.RoleVerifiedUser), h.CreateSubmission)
		submissions.GET("", middleware.RequireRole(model.RoleUser, model.RoleVerifiedUser), h.ListOwnSubmissions)
		submissions.GET("/bank", middleware.RequireRole(model.RoleBankSampahAdmin), h.ListBankSubmissions)
		submissions.PATCH("/:id/accept", middleware.RequireRole(model.RoleBankSampahAdmin), h.AcceptSubmission)
		submissions.PATCH("/:id/reject", middleware.RequireRole(model.RoleBankSampahAdmin), h.RejectSubmission)
	}
}

// CreateSubmission files a processed-waste submission against a bank sampah
// @Summary      Create submission
// @Tags         submissions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateSubmissionRequest  true  "Submission payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/submissions [post]
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req service.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	submission, err := h.submissionService.CreateSubmission(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, submission))
}

// ListOwnSubmissions returns the caller's submissions, optionally by status
// @Summary      List own submissions
// @Tags         submissions
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "Filter by status: PENDING, ACCEPTED, REJECTED"
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Success      200  {object}  response.PaginatedResponse
// @Router       /api/submissions [get]
func (h *SubmissionHandler) ListOwnSubmissions(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.SubmissionFilter{
		Status: model.SubmissionStatus(c.Query("status")),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	submissions, total, err := h.submissionService.ListOwnSubmissions(c.Request.Context(), c.GetString("userID"), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, submissions, p, total))
}

// ListBankSubmissions returns the review queue of the admin's own bank
// @Summary      List bank submissions
// @Tags         submissions
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "Filter by status: PENDING, ACCEPTED, REJECTED"
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Success      200  {object}  response.PaginatedResponse
// @Failure      403  {object}  response.Response
// @Router       /api/submissions/bank [get]
func (h *SubmissionHandler) ListBankSubmissions(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.SubmissionFilter{
		Status: model.SubmissionStatus(c.Query("status")),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	submissions, total, err := h.submissionService.ListBankSubmissions(c.Request.Context(), c.GetString("userID"), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, submissions, p, total))
}

// AcceptSubmission accepts a PENDING submission and mints the awarded points
// in the same transaction.
// @Summary      Accept submission
// @Tags         submissions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Submission ID"
// @Param        payload  body  service.AcceptSubmissionRequest  true  "Points to award"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.Response  "Already decided"
// @Failure      403  {object}  response.Response  "Not this bank's submission"
// @Router       /api/submissions/{id}/accept [patch]
func (h *SubmissionHandler) AcceptSubmission(c *gin.Context) {
	var req service.AcceptSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	submission, err := h.submissionService.AcceptSubmission(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pengajuan diterima",
		"data":    submission,
	})
}

// RejectSubmission rejects a PENDING submission with a reason
// @Summary      Reject submission
// @Tags         submissions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Submission ID"
// @Param        payload  body  service.RejectSubmissionRequest  true  "Rejection reason"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.Response
// @Router       /api/submissions/{id}/reject [patch]
func (h *SubmissionHandler) RejectSubmission(c *gin.Context) {
	var req service.RejectSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	submission, err := h.submissionService.RejectSubmission(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pengajuan ditolak",
		"data":    submission,
	})
}
