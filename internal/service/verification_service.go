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

type CreateVerificationRequest struct {
	DocumentURL string `json:"document_url" binding:"required"`
	Note        string `json:"note"`
}

type RejectVerificationRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type VerificationResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name,omitempty"`
	DocumentURL     string  `json:"document_url"`
	Note            string  `json:"note"`
	Status          string  `json:"status"`
	ReviewerName    string  `json:"reviewer_name,omitempty"`
	ReviewedAt      *string `json:"reviewed_at"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// --- Interface ---

// VerificationService drives the USER -> VERIFIED_USER escalation: users file
// a document-verification request, a super admin decides it, and approval
// flips the role inside the deciding transaction.
type VerificationService interface {
	CreateRequest(ctx context.Context, userID string, req CreateVerificationRequest) (*VerificationResponse, error)
	ListRequests(ctx context.Context, status string, page, limit int) ([]VerificationResponse, int64, error)
	ApproveRequest(ctx context.Context, reviewerID, requestID string) (*VerificationResponse, error)
	RejectRequest(ctx context.Context, reviewerID, requestID string, req RejectVerificationRequest) (*VerificationResponse, error)
}

type verificationService struct {
	verificationRepo repository.VerificationRepository
	userRepo         repository.UserRepository
	auditRepo        repository.AuditRepository
	txManager        repository.TransactionManager
}

func NewVerificationService(
	verificationRepo repository.VerificationRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) VerificationService {
	return &verificationService{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
	}
}

// --- Implementation ---

func (s *verificationService) CreateRequest(ctx context.Context, userID string, req CreateVerificationRequest) (*VerificationResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	// One open request per user.
	if _, err := s.verificationRepo.FindPendingByUser(ctx, uid); err == nil {
		return nil, ErrOpenVerificationExists
	}

	request := model.VerificationRequest{
		UserID:      uid,
		DocumentURL: req.DocumentURL,
		Note:        req.Note,
		Status:      model.VerificationPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.verificationRepo.Create(txCtx, &request); err != nil {
			return fmt.Errorf("failed to create verification request: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"document_url": req.DocumentURL,
		})
		audit := &model.AuditLog{
			UserID:   &uid,
			Action:   model.ActionCreateVerification,
			EntityID: request.ID.String(),
			Details:  string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toVerificationResponse(&request), nil
}

func (s *verificationService) ListRequests(ctx context.Context, status string, page, limit int) ([]VerificationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var statusFilter model.VerificationStatus
	if status != "" {
		statusFilter = model.VerificationStatus(status)
		switch statusFilter {
		case model.VerificationPending, model.VerificationApproved, model.VerificationRejected:
		default:
			return nil, 0, ErrInvalidStatus
		}
	}

	requests, total, err := s.verificationRepo.List(ctx, statusFilter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch verification requests: %w", err)
	}

	res := make([]VerificationResponse, 0, len(requests))
	for i := range requests {
		res = append(res, *toVerificationResponse(&requests[i]))
	}
	return res, total, nil
}

// ApproveRequest decides a PENDING request and escalates the requesting
// user's role in the same transaction.
func (s *verificationService) ApproveRequest(ctx context.Context, reviewerID, requestID string) (*VerificationResponse, error) {
	reviewer, err := uuid.Parse(reviewerID)
	if err != nil {
		return nil, fmt.Errorf("invalid reviewer id: %w", err)
	}
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, ErrVerificationNotFound
	}

	var request *model.VerificationRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, err = s.verificationRepo.FindByIDForUpdate(txCtx, reqID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVerificationNotFound
			}
			return fmt.Errorf("failed to load verification request: %w", err)
		}

		if request.Status != model.VerificationPending {
			return ErrVerificationNotPending
		}

		now := time.Now()
		request.Status = model.VerificationApproved
		request.ReviewedBy = &reviewer
		request.ReviewedAt = &now
		if err := s.verificationRepo.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update verification request: %w", err)
		}

		user, err := s.userRepo.GetByID(txCtx, request.UserID)
		if err != nil {
			return fmt.Errorf("failed to load requesting user: %w", err)
		}
		if user.Role == model.RoleUser {
			user.Role = model.RoleVerifiedUser
			if err := s.userRepo.Update(txCtx, user); err != nil {
				return fmt.Errorf("failed to escalate user role: %w", err)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"user_id": request.UserID.String(),
		})
		audit := &model.AuditLog{
			UserID:   &reviewer,
			Action:   model.ActionApproveVerification,
			EntityID: request.ID.String(),
			Details:  string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toVerificationResponse(request), nil
}

func (s *verificationService) RejectRequest(ctx context.Context, reviewerID, requestID string, req RejectVerificationRequest) (*VerificationResponse, error) {
	reviewer, err := uuid.Parse(reviewerID)
	if err != nil {
		return nil, fmt.Errorf("invalid reviewer id: %w", err)
	}
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, ErrVerificationNotFound
	}

	var request *model.VerificationRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, err = s.verificationRepo.FindByIDForUpdate(txCtx, reqID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVerificationNotFound
			}
			return fmt.Errorf("failed to load verification request: %w", err)
		}

		if request.Status != model.VerificationPending {
			return ErrVerificationNotPending
		}

		now := time.Now()
		request.Status = model.VerificationRejected
		request.ReviewedBy = &reviewer
		request.ReviewedAt = &now
		request.RejectionReason = req.RejectionReason
		if err := s.verificationRepo.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update verification request: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"user_id": request.UserID.String(),
			"reason":  req.RejectionReason,
		})
		audit := &model.AuditLog{
			UserID:   &reviewer,
			Action:   model.ActionRejectVerification,
			EntityID: request.ID.String(),
			Details:  string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toVerificationResponse(request), nil
}

// --- Helpers ---

func toVerificationResponse(req *model.VerificationRequest) *VerificationResponse {
	resp := &VerificationResponse{
		ID:              req.ID.String(),
		UserID:          req.UserID.String(),
		DocumentURL:     req.DocumentURL,
		Note:            req.Note,
		Status:          string(req.Status),
		RejectionReason: req.RejectionReason,
		CreatedAt:       req.CreatedAt.Format(time.RFC3339),
	}
	if req.User != nil {
		resp.UserName = req.User.Name
	}
	if req.Reviewer != nil {
		resp.ReviewerName = req.Reviewer.Name
	}
	if req.ReviewedAt != nil {
		t := req.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &t
	}
	return resp
}
