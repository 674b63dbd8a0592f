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

type RewardHandler struct {
	rewardService service.RewardService
}

func NewRewardHandler(rewardService service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

func (h *RewardHandler) RegisterRoutes(router *gin.RouterGroup) {
	rewards := router.Group("/api/rewards")
	{
		rewards.GET("", middleware.RequireAuth(), h.ListRewards)
		rewards.GET("/:id", middleware.RequireAuth(), h.GetReward)
		rewards.POST("", middleware.RequireRole(model.RoleBankSampahAdmin), h.CreateReward)
		rewards.PUT("/:id", middleware.RequireRole(model.RoleBankSampahAdmin), h.UpdateReward)
		rewards.DELETE("/:id", middleware.RequireRole(model.RoleBankSampahAdmin), h.DeleteReward)
	}
}

// ListRewards returns the reward catalog with optional bank/search filter
// @Summary      List rewards
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Param        page            query  int     false  "Page number (default: 1)"
// @Param        limit           query  int     false  "Items per page (default: 20)"
// @Param        bank_sampah_id  query  string  false  "Filter by bank sampah"
// @Param        search          query  string  false  "Search by name"
// @Success      200  {object}  response.PaginatedResponse
// @Router       /api/rewards [get]
func (h *RewardHandler) ListRewards(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.RewardListFilter{
		BankSampahID: c.Query("bank_sampah_id"),
		Search:       c.Query("search"),
		Page:         p.Page,
		Limit:        p.Limit,
	}

	rewards, total, err := h.rewardService.ListRewards(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, rewards, p, total))
}

// GetReward returns a single reward
// @Summary      Get reward
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Reward ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/rewards/{id} [get]
func (h *RewardHandler) GetReward(c *gin.Context) {
	reward, err := h.rewardService.GetRewardByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reward))
}

// CreateReward adds a reward to the admin's own bank catalog
// @Summary      Create reward
// @Tags         rewards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateRewardRequest  true  "Reward payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/rewards [post]
func (h *RewardHandler) CreateReward(c *gin.Context) {
	var req service.CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reward, err := h.rewardService.CreateReward(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, reward))
}

// UpdateReward updates a reward, including restocking via the stock field
// @Summary      Update reward
// @Tags         rewards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Reward ID"
// @Param        payload  body  service.UpdateRewardRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/rewards/{id} [put]
func (h *RewardHandler) UpdateReward(c *gin.Context) {
	var req service.UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reward, err := h.rewardService.UpdateReward(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reward))
}

// DeleteReward removes a reward from the admin's catalog (soft delete)
// @Summary      Delete reward
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Reward ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/rewards/{id} [delete]
func (h *RewardHandler) DeleteReward(c *gin.Context) {
	if err := h.rewardService.DeleteReward(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Hadiah dihapus"}))
}
