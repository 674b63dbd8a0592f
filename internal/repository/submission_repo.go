package repository

import (
	"context"

	"github.com/SeptianProject/sirasa-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionFilter narrows List results.
type SubmissionFilter struct {
	UserID       *uuid.UUID
	BankSampahID *uuid.UUID
	Status       model.SubmissionStatus
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.OlahanSubmission) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OlahanSubmission, error)
	// FindByIDForUpdate locks the submission row so two admins deciding the
	// same submission serialize; the loser then fails the PENDING guard.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.OlahanSubmission, error)
	List(ctx context.Context, filter SubmissionFilter, page, limit int) ([]model.OlahanSubmission, int64, error)
	Update(ctx context.Context, submission *model.OlahanSubmission) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.OlahanSubmission) error {
	return GetDB(ctx, r.db).Create(submission).Error
}

func (r *submissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.OlahanSubmission, error) {
	var submission model.OlahanSubmission
	if err := GetDB(ctx, r.db).Preload("User").Preload("BankSampah").
		First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.OlahanSubmission, error) {
	var submission model.OlahanSubmission
	if err := lockForUpdate(GetDB(ctx, r.db)).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter, page, limit int) ([]model.OlahanSubmission, int64, error) {
	var submissions []model.OlahanSubmission
	var total int64

	db := GetDB(ctx, r.db)
	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", *filter.UserID)
		}
		if filter.BankSampahID != nil {
			q = q.Where("bank_sampah_id = ?", *filter.BankSampahID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	if err := applyFilter(db.Model(&model.OlahanSubmission{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := applyFilter(db.Preload("User").Preload("BankSampah")).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *model.OlahanSubmission) error {
	return GetDB(ctx, r.db).Save(submission).Error
}
