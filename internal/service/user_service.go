package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUserRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required"`
	BankSampahID string `json:"bank_sampah_id"`
}

type UpdateUserRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	BankSampahID string `json:"bank_sampah_id"`
}

type UserListFilter struct {
	Role   string
	Status string
	Page   int
	Limit  int
}

// --- Interface ---

// UserService is the SUPER_ADMIN management surface over accounts.
type UserService interface {
	CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actorID, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID, id string) error
}

type userService struct {
	userRepo  repository.UserRepository
	bankRepo  repository.BankSampahRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewUserService(
	userRepo repository.UserRepository,
	bankRepo repository.BankSampahRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) UserService {
	return &userService{userRepo: userRepo, bankRepo: bankRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

func (s *userService) CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error) {
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	var bankID *uuid.UUID
	if role == model.RoleBankSampahAdmin {
		parsed, err := uuid.Parse(req.BankSampahID)
		if err != nil {
			return nil, ErrBankSampahNotFound
		}
		if _, err := s.bankRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBankSampahNotFound
			}
			return nil, fmt.Errorf("failed to load bank sampah: %w", err)
		}
		bankID = &parsed
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     string(hashedPassword),
		Role:         role,
		Status:       model.UserStatusApproved,
		BankSampahID: bankID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return s.logUserAction(txCtx, actorID, model.ActionCreateUser, user, map[string]interface{}{
			"role": string(role),
		})
	})
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return toUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.UserFilter{}
	if filter.Role != "" {
		role := model.Role(filter.Role)
		if !role.Valid() {
			return nil, 0, ErrInvalidRole
		}
		repoFilter.Role = role
	}
	if filter.Status != "" {
		status := model.UserStatus(filter.Status)
		if !status.Valid() {
			return nil, 0, ErrInvalidStatus
		}
		repoFilter.Status = status
	}

	users, total, err := s.userRepo.List(ctx, repoFilter, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, *toUserResponse(&users[i]))
	}
	return res, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID, id string, req UpdateUserRequest) (*UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.Role != "" {
		role := model.Role(req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if req.Status != "" {
		status := model.UserStatus(req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		user.Status = status
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.BankSampahID != "" {
		parsed, err := uuid.Parse(req.BankSampahID)
		if err != nil {
			return nil, ErrBankSampahNotFound
		}
		if _, err := s.bankRepo.FindByID(ctx, parsed); err != nil {
			return nil, ErrBankSampahNotFound
		}
		user.BankSampahID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return s.logUserAction(txCtx, actorID, model.ActionUpdateUser, user, map[string]interface{}{
			"role":   string(user.Role),
			"status": string(user.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return s.logUserAction(txCtx, actorID, model.ActionDeleteUser, user, map[string]interface{}{
			"deleted": true,
		})
	})
}

// --- Helpers ---

func (s *userService) logUserAction(ctx context.Context, actorID, action string, target *model.User, extra map[string]interface{}) error {
	var actor *uuid.UUID
	if parsed, err := uuid.Parse(actorID); err == nil {
		actor = &parsed
	}

	details, _ := json.Marshal(extra)
	audit := &model.AuditLog{
		UserID:     actor,
		Action:     action,
		EntityID:   target.ID.String(),
		EntityName: target.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
