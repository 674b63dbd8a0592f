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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateSubmissionRequest struct {
	BankSampahID string          `json:"bank_sampah_id" binding:"required"`
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Weight       decimal.Decimal `json:"weight" binding:"required"`
}

type AcceptSubmissionRequest struct {
	PointsEarned int `json:"points_earned" binding:"required,gt=0"`
}

type RejectSubmissionRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type SubmissionFilter struct {
	Status model.SubmissionStatus
	Page   int
	Limit  int
}

type SubmissionResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name,omitempty"`
	BankSampahID    string `json:"bank_sampah_id"`
	BankSampahName  string `json:"bank_sampah_name,omitempty"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Weight          string `json:"weight"`
	Status          string `json:"status"`
	PointsEarned    int    `json:"points_earned"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// --- Interface ---

type SubmissionService interface {
	CreateSubmission(ctx context.Context, userID string, req CreateSubmissionRequest) (*SubmissionResponse, error)
	ListOwnSubmissions(ctx context.Context, userID string, filter SubmissionFilter) ([]SubmissionResponse, int64, error)
	ListBankSubmissions(ctx context.Context, adminID string, filter SubmissionFilter) ([]SubmissionResponse, int64, error)
	AcceptSubmission(ctx context.Context, adminID, submissionID string, req AcceptSubmissionRequest) (*SubmissionResponse, error)
	RejectSubmission(ctx context.Context, adminID, submissionID string, req RejectSubmissionRequest) (*SubmissionResponse, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	bankRepo       repository.BankSampahRepository
	userRepo       repository.UserRepository
	pointTxRepo    repository.PointTransactionRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	hub            *ws.Hub
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	bankRepo repository.BankSampahRepository,
	userRepo repository.UserRepository,
	pointTxRepo repository.PointTransactionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		bankRepo:       bankRepo,
		userRepo:       userRepo,
		pointTxRepo:    pointTxRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		hub:            hub,
	}
}

// --- Implementation ---

func (s *submissionService) CreateSubmission(ctx context.Context, userID string, req CreateSubmissionRequest) (*SubmissionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	bankID, err := uuid.Parse(req.BankSampahID)
	if err != nil {
		return nil, ErrBankSampahNotFound
	}

	if !req.Weight.IsPositive() {
		return nil, ErrInvalidWeight
	}

	bank, err := s.bankRepo.FindByID(ctx, bankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBankSampahNotFound
		}
		return nil, fmt.Errorf("failed to load bank sampah: %w", err)
	}

	submission := model.OlahanSubmission{
		UserID:       uid,
		BankSampahID: bank.ID,
		Title:        req.Title,
		Description:  req.Description,
		Weight:       req.Weight,
		Status:       model.SubmissionPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.submissionRepo.Create(txCtx, &submission); err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"bank_sampah_id": bank.ID.String(),
			"title":          req.Title,
			"weight":         req.Weight.String(),
		})
		audit := &model.AuditLog{
			UserID:     &uid,
			Action:     model.ActionCreateSubmission,
			EntityID:   submission.ID.String(),
			EntityName: submission.Title,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	submission.BankSampah = bank
	return toSubmissionResponse(&submission), nil
}

func (s *submissionService) ListOwnSubmissions(ctx context.Context, userID string, filter SubmissionFilter) ([]SubmissionResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}
	return s.list(ctx, repository.SubmissionFilter{UserID: &uid, Status: filter.Status}, filter.Page, filter.Limit)
}

func (s *submissionService) ListBankSubmissions(ctx context.Context, adminID string, filter SubmissionFilter) ([]SubmissionResponse, int64, error) {
	admin, err := s.loadBankAdmin(ctx, adminID)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, repository.SubmissionFilter{BankSampahID: admin.BankSampahID, Status: filter.Status}, filter.Page, filter.Limit)
}

// AcceptSubmission decides a PENDING submission and mints the EARNED ledger
// entry in the same transaction. A submission that has already been decided
// can never be decided again.
func (s *submissionService) AcceptSubmission(ctx context.Context, adminID, submissionID string, req AcceptSubmissionRequest) (*SubmissionResponse, error) {
	if req.PointsEarned <= 0 {
		return nil, ErrInvalidAmount
	}

	admin, err := s.loadBankAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	subID, err := uuid.Parse(submissionID)
	if err != nil {
		return nil, ErrSubmissionNotFound
	}

	var submission *model.OlahanSubmission
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		submission, err = s.submissionRepo.FindByIDForUpdate(txCtx, subID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("failed to load submission: %w", err)
		}

		if admin.BankSampahID == nil || submission.BankSampahID != *admin.BankSampahID {
			return ErrForbidden
		}
		if submission.Status != model.SubmissionPending {
			return ErrSubmissionNotPending
		}

		submission.Status = model.SubmissionAccepted
		submission.PointsEarned = req.PointsEarned
		if err := s.submissionRepo.Update(txCtx, submission); err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}

		credit := model.PointTransaction{
			UserID:      submission.UserID,
			Amount:      req.PointsEarned,
			Type:        model.PointTxEarned,
			Description: "Pengajuan olahan diterima: " + submission.Title,
		}
		if err := s.pointTxRepo.Create(txCtx, &credit); err != nil {
			return fmt.Errorf("failed to append credit transaction: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"submission_id": submission.ID.String(),
			"points_earned": req.PointsEarned,
		})
		audit := &model.AuditLog{
			UserID:     &admin.ID,
			Action:     model.ActionAcceptSubmission,
			EntityID:   submission.ID.String(),
			EntityName: submission.Title,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(ws.EventSubmissionAccepted, map[string]interface{}{
		"submission_id": submission.ID.String(),
		"user_id":       submission.UserID.String(),
		"points_earned": req.PointsEarned,
	})

	return toSubmissionResponse(submission), nil
}

// RejectSubmission decides a PENDING submission without minting anything.
func (s *submissionService) RejectSubmission(ctx context.Context, adminID, submissionID string, req RejectSubmissionRequest) (*SubmissionResponse, error) {
	admin, err := s.loadBankAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	subID, err := uuid.Parse(submissionID)
	if err != nil {
		return nil, ErrSubmissionNotFound
	}

	var submission *model.OlahanSubmission
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		submission, err = s.submissionRepo.FindByIDForUpdate(txCtx, subID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("failed to load submission: %w", err)
		}

		if admin.BankSampahID == nil || submission.BankSampahID != *admin.BankSampahID {
			return ErrForbidden
		}
		if submission.Status != model.SubmissionPending {
			return ErrSubmissionNotPending
		}

		submission.Status = model.SubmissionRejected
		submission.RejectionReason = req.RejectionReason
		if err := s.submissionRepo.Update(txCtx, submission); err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"submission_id": submission.ID.String(),
			"reason":        req.RejectionReason,
		})
		audit := &model.AuditLog{
			UserID:     &admin.ID,
			Action:     model.ActionRejectSubmission,
			EntityID:   submission.ID.String(),
			EntityName: submission.Title,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toSubmissionResponse(submission), nil
}

// --- Helpers ---

func (s *submissionService) list(ctx context.Context, filter repository.SubmissionFilter, page, limit int) ([]SubmissionResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	submissions, total, err := s.submissionRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	res := make([]SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		res = append(res, *toSubmissionResponse(&submissions[i]))
	}
	return res, total, nil
}

// loadBankAdmin resolves the acting admin and requires a bank binding.
func (s *submissionService) loadBankAdmin(ctx context.Context, adminID string) (*model.User, error) {
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

func toSubmissionResponse(sub *model.OlahanSubmission) *SubmissionResponse {
	resp := &SubmissionResponse{
		ID:              sub.ID.String(),
		UserID:          sub.UserID.String(),
		BankSampahID:    sub.BankSampahID.String(),
		Title:           sub.Title,
		Description:     sub.Description,
		Weight:          sub.Weight.String(),
		Status:          string(sub.Status),
		PointsEarned:    sub.PointsEarned,
		RejectionReason: sub.RejectionReason,
		CreatedAt:       sub.CreatedAt.Format(time.RFC3339),
	}
	if sub.User != nil {
		resp.UserName = sub.User.Name
	}
	if sub.BankSampah != nil {
		resp.BankSampahName = sub.BankSampah.Name
	}
	return resp
}
