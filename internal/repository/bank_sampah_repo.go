package repository

import (
	"context"

	"github.com/SeptianProject/sirasa-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankSampahRepository interface {
	Create(ctx context.Context, bank *model.BankSampah) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BankSampah, error)
	List(ctx context.Context, search string, page, limit int) ([]model.BankSampah, int64, error)
	Update(ctx context.Context, bank *model.BankSampah) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type bankSampahRepository struct {
	db *gorm.DB
}

func NewBankSampahRepository(db *gorm.DB) BankSampahRepository {
	return &bankSampahRepository{db: db}
}

func (r *bankSampahRepository) Create(ctx context.Context, bank *model.BankSampah) error {
	return GetDB(ctx, r.db).Create(bank).Error
}

func (r *bankSampahRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BankSampah, error) {
	var bank model.BankSampah
	if err := GetDB(ctx, r.db).First(&bank, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *bankSampahRepository) List(ctx context.Context, search string, page, limit int) ([]model.BankSampah, int64, error) {
	var banks []model.BankSampah
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.BankSampah{})
	if search != "" {
		query = query.Where("name LIKE ? OR city LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetchQuery := db.Model(&model.BankSampah{})
	if search != "" {
		fetchQuery = fetchQuery.Where("name LIKE ? OR city LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	offset := (page - 1) * limit
	if err := fetchQuery.Order("name ASC").Offset(offset).Limit(limit).Find(&banks).Error; err != nil {
		return nil, 0, err
	}

	return banks, total, nil
}

func (r *bankSampahRepository) Update(ctx context.Context, bank *model.BankSampah) error {
	return GetDB(ctx, r.db).Save(bank).Error
}

func (r *bankSampahRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BankSampah{}).Error
}
