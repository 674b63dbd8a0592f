package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRewardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	PointCost   int    `json:"point_cost" binding:"required,gt=0"`
	Stock       int    `json:"stock" binding:"gte=0"`
}

type UpdateRewardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	PointCost   *int   `json:"point_cost" binding:"omitempty,gt=0"`
	Stock       *int   `json:"stock" binding:"omitempty,gte=0"` // restocking is a plain admin update
}

type RewardResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	PointCost      int    `json:"point_cost"`
	Stock          int    `json:"stock"`
	BankSampahID   string `json:"bank_sampah_id"`
	BankSampahName string `json:"bank_sampah_name,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type RewardListFilter struct {
	BankSampahID string
	Search       string
	Page         int
	Limit        int
}

// --- Interface ---

type RewardService interface {
	ListRewards(ctx context.Context, filter RewardListFilter) ([]RewardResponse, int64, error)
	GetRewardByID(ctx context.Context, id string) (*RewardResponse, error)
	CreateReward(ctx context.Context, adminID string, req CreateRewardRequest) (*RewardResponse, error)
	UpdateReward(ctx context.Context, adminID, id string, req UpdateRewardRequest) (*RewardResponse, error)
	DeleteReward(ctx context.Context, adminID, id string) error
}

type rewardService struct {
	rewardRepo repository.RewardRepository
	userRepo   repository.UserRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewRewardService(
	rewardRepo repository.RewardRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) RewardService {
	return &rewardService{
		rewardRepo: rewardRepo,
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
	}
}

// --- Implementation ---

func (s *rewardService) ListRewards(ctx context.Context, filter RewardListFilter) ([]RewardResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.RewardFilter{Search: filter.Search}
	if filter.BankSampahID != "" {
		bankID, err := uuid.Parse(filter.BankSampahID)
		if err != nil {
			return nil, 0, ErrBankSampahNotFound
		}
		repoFilter.BankSampahID = &bankID
	}

	rewards, total, err := s.rewardRepo.List(ctx, repoFilter, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rewards: %w", err)
	}

	res := make([]RewardResponse, 0, len(rewards))
	for i := range rewards {
		res = append(res, *toRewardResponse(&rewards[i]))
	}
	return res, total, nil
}

func (s *rewardService) GetRewardByID(ctx context.Context, id string) (*RewardResponse, error) {
	rewardID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRewardNotFound
	}
	reward, err := s.rewardRepo.FindByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to load reward: %w", err)
	}
	return toRewardResponse(reward), nil
}

func (s *rewardService) CreateReward(ctx context.Context, adminID string, req CreateRewardRequest) (*RewardResponse, error) {
	admin, err := s.loadBankAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	reward := model.Reward{
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		PointCost:    req.PointCost,
		Stock:        req.Stock,
		BankSampahID: *admin.BankSampahID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rewardRepo.Create(txCtx, &reward); err != nil {
			return fmt.Errorf("failed to create reward: %w", err)
		}
		return s.logRewardAction(txCtx, admin.ID, model.ActionCreateReward, &reward, req)
	})
	if err != nil {
		return nil, err
	}

	return toRewardResponse(&reward), nil
}

func (s *rewardService) UpdateReward(ctx context.Context, adminID, id string, req UpdateRewardRequest) (*RewardResponse, error) {
	admin, err := s.loadBankAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	rewardID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRewardNotFound
	}
	reward, err := s.rewardRepo.FindByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to load reward: %w", err)
	}

	if reward.BankSampahID != *admin.BankSampahID {
		return nil, ErrForbidden
	}

	if req.Name != "" {
		reward.Name = req.Name
	}
	if req.Description != "" {
		reward.Description = req.Description
	}
	if req.Image != "" {
		reward.Image = req.Image
	}
	if req.PointCost != nil {
		reward.PointCost = *req.PointCost
	}
	if req.Stock != nil {
		reward.Stock = *req.Stock
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rewardRepo.Update(txCtx, reward); err != nil {
			return fmt.Errorf("failed to update reward: %w", err)
		}
		return s.logRewardAction(txCtx, admin.ID, model.ActionUpdateReward, reward, req)
	})
	if err != nil {
		return nil, err
	}

	return toRewardResponse(reward), nil
}

func (s *rewardService) DeleteReward(ctx context.Context, adminID, id string) error {
	admin, err := s.loadBankAdmin(ctx, adminID)
	if err != nil {
		return err
	}

	rewardID, err := uuid.Parse(id)
	if err != nil {
		return ErrRewardNotFound
	}
	reward, err := s.rewardRepo.FindByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRewardNotFound
		}
		return fmt.Errorf("failed to load reward: %w", err)
	}

	if reward.BankSampahID != *admin.BankSampahID {
		return ErrForbidden
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rewardRepo.Delete(txCtx, rewardID); err != nil {
			return fmt.Errorf("failed to delete reward: %w", err)
		}
		return s.logRewardAction(txCtx, admin.ID, model.ActionDeleteReward, reward, map[string]bool{"deleted": true})
	})
}

// --- Helpers ---

func (s *rewardService) loadBankAdmin(ctx context.Context, adminID string) (*model.User, error) {
	uid, err := uuid.Parse(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	admin, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if admin.Role != model.RoleBankSampahAdmin || admin.BankSampahID == nil {
		return nil, ErrForbidden
	}
	return admin, nil
}

func (s *rewardService) logRewardAction(ctx context.Context, actorID uuid.UUID, action string, reward *model.Reward, payload interface{}) error {
	details, _ := json.Marshal(payload)
	audit := &model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   reward.ID.String(),
		EntityName: reward.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toRewardResponse(reward *model.Reward) *RewardResponse {
	resp := &RewardResponse{
		ID:           reward.ID.String(),
		Name:         reward.Name,
		Description:  reward.Description,
		Image:        reward.Image,
		PointCost:    reward.PointCost,
		Stock:        reward.Stock,
		BankSampahID: reward.BankSampahID.String(),
		CreatedAt:    reward.CreatedAt.Format(time.RFC3339),
	}
	if reward.BankSampah != nil {
		resp.BankSampahName = reward.BankSampah.Name
	}
	return resp
}
