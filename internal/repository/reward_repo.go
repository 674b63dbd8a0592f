package repository

import (
	"context"

	"github.com/SeptianProject/sirasa-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardFilter narrows List results.
type RewardFilter struct {
	BankSampahID *uuid.UUID
	Search       string
}

type RewardRepository interface {
	Create(ctx context.Context, reward *model.Reward) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reward, error)
	// FindByIDForUpdate loads the reward under a row-level lock so a
	// concurrent redemption of the same reward serializes behind this one.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Reward, error)
	List(ctx context.Context, filter RewardFilter, page, limit int) ([]model.Reward, int64, error)
	Update(ctx context.Context, reward *model.Reward) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DecrementStock performs the guarded decrement
	// (stock = stock - 1 WHERE stock > 0) and reports how many rows changed.
	// Zero rows means the last unit was already taken.
	DecrementStock(ctx context.Context, id uuid.UUID) (int64, error)
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Create(ctx context.Context, reward *model.Reward) error {
	return GetDB(ctx, r.db).Create(reward).Error
}

func (r *rewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	var reward model.Reward
	if err := GetDB(ctx, r.db).Preload("BankSampah").First(&reward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	var reward model.Reward
	if err := lockForUpdate(GetDB(ctx, r.db)).First(&reward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) List(ctx context.Context, filter RewardFilter, page, limit int) ([]model.Reward, int64, error) {
	var rewards []model.Reward
	var total int64

	db := GetDB(ctx, r.db)
	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.BankSampahID != nil {
			q = q.Where("bank_sampah_id = ?", *filter.BankSampahID)
		}
		if filter.Search != "" {
			q = q.Where("name LIKE ?", "%"+filter.Search+"%")
		}
		return q
	}

	if err := applyFilter(db.Model(&model.Reward{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := applyFilter(db.Preload("BankSampah")).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&rewards).Error; err != nil {
		return nil, 0, err
	}

	return rewards, total, nil
}

func (r *rewardRepository) Update(ctx context.Context, reward *model.Reward) error {
	return GetDB(ctx, r.db).Save(reward).Error
}

func (r *rewardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Reward{}).Error
}

func (r *rewardRepository) DecrementStock(ctx context.Context, id uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Reward{}).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - 1"))
	return res.RowsAffected, res.Error
}
