package repository

import (
	"context"

	"github.com/SeptianProject/sirasa-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	Create(ctx context.Context, req *model.VerificationRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error)
	// FindPendingByUser returns the user's open request, if any. Used to
	// enforce one open verification request per user.
	FindPendingByUser(ctx context.Context, userID uuid.UUID) (*model.VerificationRequest, error)
	List(ctx context.Context, status model.VerificationStatus, page, limit int) ([]model.VerificationRequest, int64, error)
	Update(ctx context.Context, req *model.VerificationRequest) error
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, req *model.VerificationRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *verificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	if err := GetDB(ctx, r.db).Preload("User").Preload("Reviewer").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *verificationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	if err := lockForUpdate(GetDB(ctx, r.db)).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *verificationRepository) FindPendingByUser(ctx context.Context, userID uuid.UUID) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	if err := GetDB(ctx, r.db).
		First(&req, "user_id = ? AND status = ?", userID, model.VerificationPending).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *verificationRepository) List(ctx context.Context, status model.VerificationStatus, page, limit int) ([]model.VerificationRequest, int64, error) {
	var requests []model.VerificationRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.VerificationRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetchQuery := db.Preload("User").Preload("Reviewer")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}

	offset := (page - 1) * limit
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *verificationRepository) Update(ctx context.Context, req *model.VerificationRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}
