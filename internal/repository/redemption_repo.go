package repository

import (
	"context"

	"github.com/SeptianProject/sirasa-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RedemptionRepository interface {
	Create(ctx context.Context, redemption *model.PointRedemption) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PointRedemption, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.PointRedemption, int64, error)
	// UpdateStatus is the extension point for the bank-side fulfillment
	// workflow (PENDING -> COMPLETED/CANCELLED). No route drives it yet.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.RedemptionStatus) error
}

type redemptionRepository struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

func (r *redemptionRepository) Create(ctx context.Context, redemption *model.PointRedemption) error {
	return GetDB(ctx, r.db).Create(redemption).Error
}

func (r *redemptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PointRedemption, error) {
	var redemption model.PointRedemption
	if err := GetDB(ctx, r.db).Preload("Reward").First(&redemption, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *redemptionRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.PointRedemption, int64, error) {
	var redemptions []model.PointRedemption
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PointRedemption{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Reward").Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&redemptions).Error; err != nil {
		return nil, 0, err
	}

	return redemptions, total, nil
}

func (r *redemptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RedemptionStatus) error {
	return GetDB(ctx, r.db).Model(&model.PointRedemption{}).
		Where("id = ?", id).Update("status", status).Error
}
