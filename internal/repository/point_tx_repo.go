package repository

import (
	"context"

	"github.com/SeptianProject/sirasa-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointTransactionRepository is the append-only ledger access layer. There
// is deliberately no Update or Delete: the ledger is the single source of
// truth for balances and must never be rewritten.
type PointTransactionRepository interface {
	Create(ctx context.Context, tx *model.PointTransaction) error
	// BalanceOf folds the full ledger for one user:
	// sum of EARNED amounts minus sum of REDEEMED amounts.
	BalanceOf(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.PointTransaction, int64, error)
	// LockUserLedger serializes concurrent spends by the same user for the
	// duration of the surrounding transaction. No-op outside postgres.
	LockUserLedger(ctx context.Context, userID uuid.UUID) error
}

type pointTransactionRepository struct {
	db *gorm.DB
}

func NewPointTransactionRepository(db *gorm.DB) PointTransactionRepository {
	return &pointTransactionRepository{db: db}
}

func (r *pointTransactionRepository) Create(ctx context.Context, tx *model.PointTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *pointTransactionRepository) BalanceOf(ctx context.Context, userID uuid.UUID) (int, error) {
	var balance int
	err := GetDB(ctx, r.db).Model(&model.PointTransaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", model.PointTxEarned).
		Where("user_id = ?", userID).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *pointTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.PointTransaction, int64, error) {
	var txs []model.PointTransaction
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PointTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func (r *pointTransactionRepository) LockUserLedger(ctx context.Context, userID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID.String()).Error
}
