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

type CreateBankSampahRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

type UpdateBankSampahRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

type BankSampahResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type BankSampahService interface {
	CreateBankSampah(ctx context.Context, actorID string, req CreateBankSampahRequest) (*BankSampahResponse, error)
	GetBankSampahByID(ctx context.Context, id string) (*BankSampahResponse, error)
	ListBankSampah(ctx context.Context, search string, page, limit int) ([]BankSampahResponse, int64, error)
	UpdateBankSampah(ctx context.Context, actorID, id string, req UpdateBankSampahRequest) (*BankSampahResponse, error)
	DeleteBankSampah(ctx context.Context, actorID, id string) error
}

type bankSampahService struct {
	bankRepo  repository.BankSampahRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewBankSampahService(
	bankRepo repository.BankSampahRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) BankSampahService {
	return &bankSampahService{bankRepo: bankRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

func (s *bankSampahService) CreateBankSampah(ctx context.Context, actorID string, req CreateBankSampahRequest) (*BankSampahResponse, error) {
	bank := model.BankSampah{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		Description: req.Description,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bankRepo.Create(txCtx, &bank); err != nil {
			return fmt.Errorf("failed to create bank sampah: %w", err)
		}
		return s.logBankAction(txCtx, actorID, model.ActionCreateBankSampah, &bank, req)
	})
	if err != nil {
		return nil, err
	}

	return toBankSampahResponse(&bank), nil
}

func (s *bankSampahService) GetBankSampahByID(ctx context.Context, id string) (*BankSampahResponse, error) {
	bankID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBankSampahNotFound
	}
	bank, err := s.bankRepo.FindByID(ctx, bankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBankSampahNotFound
		}
		return nil, fmt.Errorf("failed to load bank sampah: %w", err)
	}
	return toBankSampahResponse(bank), nil
}

func (s *bankSampahService) ListBankSampah(ctx context.Context, search string, page, limit int) ([]BankSampahResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	banks, total, err := s.bankRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bank sampah list: %w", err)
	}

	res := make([]BankSampahResponse, 0, len(banks))
	for i := range banks {
		res = append(res, *toBankSampahResponse(&banks[i]))
	}
	return res, total, nil
}

func (s *bankSampahService) UpdateBankSampah(ctx context.Context, actorID, id string, req UpdateBankSampahRequest) (*BankSampahResponse, error) {
	bankID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBankSampahNotFound
	}
	bank, err := s.bankRepo.FindByID(ctx, bankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBankSampahNotFound
		}
		return nil, fmt.Errorf("failed to load bank sampah: %w", err)
	}

	if req.Name != "" {
		bank.Name = req.Name
	}
	if req.Address != "" {
		bank.Address = req.Address
	}
	if req.City != "" {
		bank.City = req.City
	}
	if req.Phone != "" {
		bank.Phone = req.Phone
	}
	if req.Description != "" {
		bank.Description = req.Description
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bankRepo.Update(txCtx, bank); err != nil {
			return fmt.Errorf("failed to update bank sampah: %w", err)
		}
		return s.logBankAction(txCtx, actorID, model.ActionUpdateBankSampah, bank, req)
	})
	if err != nil {
		return nil, err
	}

	return toBankSampahResponse(bank), nil
}

func (s *bankSampahService) DeleteBankSampah(ctx context.Context, actorID, id string) error {
	bankID, err := uuid.Parse(id)
	if err != nil {
		return ErrBankSampahNotFound
	}
	bank, err := s.bankRepo.FindByID(ctx, bankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBankSampahNotFound
		}
		return fmt.Errorf("failed to load bank sampah: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bankRepo.Delete(txCtx, bankID); err != nil {
			return fmt.Errorf("failed to delete bank sampah: %w", err)
		}
		return s.logBankAction(txCtx, actorID, model.ActionDeleteBankSampah, bank, map[string]bool{"deleted": true})
	})
}

// --- Helpers ---

func (s *bankSampahService) logBankAction(ctx context.Context, actorID, action string, bank *model.BankSampah, payload interface{}) error {
	var actor *uuid.UUID
	if parsed, err := uuid.Parse(actorID); err == nil {
		actor = &parsed
	}

	details, _ := json.Marshal(payload)
	audit := &model.AuditLog{
		UserID:     actor,
		Action:     action,
		EntityID:   bank.ID.String(),
		EntityName: bank.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toBankSampahResponse(bank *model.BankSampah) *BankSampahResponse {
	return &BankSampahResponse{
		ID:          bank.ID.String(),
		Name:        bank.Name,
		Address:     bank.Address,
		City:        bank.City,
		Phone:       bank.Phone,
		Description: bank.Description,
		CreatedAt:   bank.CreatedAt.Format(time.RFC3339),
	}
}
