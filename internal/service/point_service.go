package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"
	ws "github.com/SeptianProject/sirasa-sub000/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type RedeemRequest struct {
	RewardID string `json:"reward_id" binding:"required"`
}

type RewardSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	PointCost int    `json:"point_cost"`
}

type RedemptionResponse struct {
	ID         string          `json:"id"`
	Reward     *RewardSnapshot `json:"reward,omitempty"`
	PointsUsed int             `json:"points_used"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}

// RedeemResult is the success payload of a redemption: the created record
// plus the caller's balance after the debit.
type RedeemResult struct {
	Redemption      RedemptionResponse `json:"redemption"`
	RemainingPoints int                `json:"remainingPoints"`
}

// PointsOverview backs the balance query endpoint. CurrentPoints is always
// re-derived from the ledger, never read from a stored counter.
type PointsOverview struct {
	CurrentPoints int                      `json:"currentPoints"`
	Transactions  []model.PointTransaction `json:"data"`
	Total         int64                    `json:"-"`
}

// --- Interface ---

type PointService interface {
	GetPoints(ctx context.Context, userID string, page, limit int) (*PointsOverview, error)
	Redeem(ctx context.Context, userID string, req RedeemRequest) (*RedeemResult, error)
	ListRedemptions(ctx context.Context, userID string, page, limit int) ([]RedemptionResponse, int64, error)
}

type pointService struct {
	pointTxRepo    repository.PointTransactionRepository
	redemptionRepo repository.RedemptionRepository
	rewardRepo     repository.RewardRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	hub            *ws.Hub
}

func NewPointService(
	pointTxRepo repository.PointTransactionRepository,
	redemptionRepo repository.RedemptionRepository,
	rewardRepo repository.RewardRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) PointService {
	return &pointService{
		pointTxRepo:    pointTxRepo,
		redemptionRepo: redemptionRepo,
		rewardRepo:     rewardRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		hub:            hub,
	}
}

// --- Implementation ---

func (s *pointService) GetPoints(ctx context.Context, userID string, page, limit int) (*PointsOverview, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	balance, err := s.pointTxRepo.BalanceOf(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to derive balance: %w", err)
	}

	txs, total, err := s.pointTxRepo.ListByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch point transactions: %w", err)
	}

	return &PointsOverview{
		CurrentPoints: balance,
		Transactions:  txs,
		Total:         total,
	}, nil
}

// Redeem exchanges points for one unit of a reward. The whole operation is a
// single transactional unit: balance check, debit insert, redemption insert
// and stock decrement commit together or not at all. Preconditions are
// checked in order — existence, stock, balance — each with its own failure.
func (s *pointService) Redeem(ctx context.Context, userID string, req RedeemRequest) (*RedeemResult, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	rewardID, err := uuid.Parse(req.RewardID)
	if err != nil {
		return nil, ErrRewardNotFound
	}

	var (
		redemption model.PointRedemption
		reward     *model.Reward
		remaining  int
	)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Serialize spends by this user so two in-flight redemptions cannot
		// both read the same stale balance.
		if err := s.pointTxRepo.LockUserLedger(txCtx, uid); err != nil {
			return fmt.Errorf("failed to lock user ledger: %w", err)
		}

		reward, err = s.rewardRepo.FindByIDForUpdate(txCtx, rewardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return fmt.Errorf("failed to load reward: %w", err)
		}

		if reward.Stock <= 0 {
			return ErrOutOfStock
		}

		balance, err := s.pointTxRepo.BalanceOf(txCtx, uid)
		if err != nil {
			return fmt.Errorf("failed to derive balance: %w", err)
		}
		if balance < reward.PointCost {
			return &InsufficientPointsError{CurrentPoints: balance, RequiredPoints: reward.PointCost}
		}

		debit := model.PointTransaction{
			UserID:      uid,
			Amount:      reward.PointCost,
			Type:        model.PointTxRedeemed,
			Description: "Penukaran hadiah: " + reward.Name,
		}
		if err := s.pointTxRepo.Create(txCtx, &debit); err != nil {
			return fmt.Errorf("failed to append debit transaction: %w", err)
		}

		redemption = model.PointRedemption{
			UserID:     uid,
			RewardID:   reward.ID,
			PointsUsed: reward.PointCost,
			Status:     model.RedemptionPending,
		}
		if err := s.redemptionRepo.Create(txCtx, &redemption); err != nil {
			return fmt.Errorf("failed to create redemption: %w", err)
		}

		rows, err := s.rewardRepo.DecrementStock(txCtx, reward.ID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if rows == 0 {
			return ErrOutOfStock
		}

		details, _ := json.Marshal(map[string]interface{}{
			"reward_id":   reward.ID.String(),
			"reward_name": reward.Name,
			"points_used": reward.PointCost,
		})
		audit := &model.AuditLog{
			UserID:     &uid,
			Action:     model.ActionRedeemReward,
			EntityID:   redemption.ID.String(),
			EntityName: reward.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		remaining = balance - reward.PointCost
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(ws.EventPointsRedeemed, map[string]interface{}{
		"user_id":     uid.String(),
		"reward_name": reward.Name,
		"points_used": reward.PointCost,
	})

	return &RedeemResult{
		Redemption: RedemptionResponse{
			ID: redemption.ID.String(),
			Reward: &RewardSnapshot{
				ID:        reward.ID.String(),
				Name:      reward.Name,
				Image:     reward.Image,
				PointCost: reward.PointCost,
			},
			PointsUsed: redemption.PointsUsed,
			Status:     string(redemption.Status),
			CreatedAt:  redemption.CreatedAt.Format(time.RFC3339),
		},
		RemainingPoints: remaining,
	}, nil
}

func (s *pointService) ListRedemptions(ctx context.Context, userID string, page, limit int) ([]RedemptionResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	redemptions, total, err := s.redemptionRepo.ListByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch redemptions: %w", err)
	}

	res := make([]RedemptionResponse, 0, len(redemptions))
	for _, rd := range redemptions {
		item := RedemptionResponse{
			ID:         rd.ID.String(),
			PointsUsed: rd.PointsUsed,
			Status:     string(rd.Status),
			CreatedAt:  rd.CreatedAt.Format(time.RFC3339),
		}
		if rd.Reward != nil {
			item.Reward = &RewardSnapshot{
				ID:        rd.Reward.ID.String(),
				Name:      rd.Reward.Name,
				Image:     rd.Reward.Image,
				PointCost: rd.Reward.PointCost,
			}
		}
		res = append(res, item)
	}

	return res, total, nil
}
