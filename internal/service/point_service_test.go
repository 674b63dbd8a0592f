package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SeptianProject/sirasa-sub000/internal/database"
	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh named in-memory database. The shared cache keeps
// every pooled connection on the same database; the per-test name keeps tests
// isolated from each other.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func newTestPointService(db *gorm.DB) PointService {
	return NewPointService(
		repository.NewPointTransactionRepository(db),
		repository.NewRedemptionRepository(db),
		repository.NewRewardRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		nil, // no realtime hub in tests
	)
}

func seedUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test User",
		Email:    "user-" + string(role) + "@example.com",
		Password: "hashed",
		Role:     role,
		Status:   model.UserStatusApproved,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBank(t *testing.T, db *gorm.DB) *model.BankSampah {
	t.Helper()
	bank := &model.BankSampah{
		Name:    "Bank Sampah Sejahtera",
		Address: "Jl. Mawar No. 1",
		City:    "Bandung",
	}
	require.NoError(t, db.Create(bank).Error)
	return bank
}

func seedReward(t *testing.T, db *gorm.DB, bank *model.BankSampah, cost, stock int) *model.Reward {
	t.Helper()
	reward := &model.Reward{
		Name:         "Voucher Belanja",
		PointCost:    cost,
		Stock:        stock,
		BankSampahID: bank.ID,
	}
	require.NoError(t, db.Create(reward).Error)
	return reward
}

func seedEarned(t *testing.T, db *gorm.DB, user *model.User, amount int) {
	t.Helper()
	tx := &model.PointTransaction{
		UserID:      user.ID,
		Amount:      amount,
		Type:        model.PointTxEarned,
		Description: "seed",
	}
	require.NoError(t, db.Create(tx).Error)
}

func TestGetPoints_EmptyLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)

	overview, err := svc.GetPoints(context.Background(), user.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, overview.CurrentPoints)
	assert.Empty(t, overview.Transactions)
	assert.Equal(t, int64(0), overview.Total)
}

func TestGetPoints_DerivedFromLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)

	seedEarned(t, db, user, 50)
	seedEarned(t, db, user, 25)
	require.NoError(t, db.Create(&model.PointTransaction{
		UserID: user.ID,
		Amount: 30,
		Type:   model.PointTxRedeemed,
	}).Error)

	overview, err := svc.GetPoints(context.Background(), user.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 45, overview.CurrentPoints)
	assert.Equal(t, int64(3), overview.Total)
}

func TestRedeem_Success(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	reward := seedReward(t, db, bank, 30, 5)
	seedEarned(t, db, user, 50)

	result, err := svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, 20, result.RemainingPoints)
	assert.Equal(t, 30, result.Redemption.PointsUsed)
	assert.Equal(t, string(model.RedemptionPending), result.Redemption.Status)
	require.NotNil(t, result.Redemption.Reward)
	assert.Equal(t, reward.Name, result.Redemption.Reward.Name)

	// Stock decremented exactly once.
	var stored model.Reward
	require.NoError(t, db.First(&stored, "id = ?", reward.ID).Error)
	assert.Equal(t, 4, stored.Stock)

	// Ledger now carries the debit and the derived balance reflects it.
	overview, err := svc.GetPoints(context.Background(), user.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, overview.CurrentPoints)

	var debit model.PointTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, model.PointTxRedeemed).First(&debit).Error)
	assert.Equal(t, 30, debit.Amount)

	// Audit trail written.
	var auditCount int64
	require.NoError(t, db.Model(&model.AuditLog{}).Where("action = ?", model.ActionRedeemReward).Count(&auditCount).Error)
	assert.Equal(t, int64(1), auditCount)
}

func TestRedeem_InsufficientPoints(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	reward := seedReward(t, db, bank, 30, 5)
	seedEarned(t, db, user, 10)

	_, err := svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	require.Error(t, err)

	var insufficient *InsufficientPointsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 10, insufficient.CurrentPoints)
	assert.Equal(t, 30, insufficient.RequiredPoints)

	// Nothing committed: no redemption, no debit, stock untouched.
	var redemptionCount, txCount int64
	require.NoError(t, db.Model(&model.PointRedemption{}).Count(&redemptionCount).Error)
	require.NoError(t, db.Model(&model.PointTransaction{}).Where("type = ?", model.PointTxRedeemed).Count(&txCount).Error)
	assert.Equal(t, int64(0), redemptionCount)
	assert.Equal(t, int64(0), txCount)

	var stored model.Reward
	require.NoError(t, db.First(&stored, "id = ?", reward.ID).Error)
	assert.Equal(t, 5, stored.Stock)
}

func TestRedeem_OutOfStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	reward := seedReward(t, db, bank, 30, 0)
	seedEarned(t, db, user, 100)

	_, err := svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	assert.ErrorIs(t, err, ErrOutOfStock)

	var txCount int64
	require.NoError(t, db.Model(&model.PointTransaction{}).Where("type = ?", model.PointTxRedeemed).Count(&txCount).Error)
	assert.Equal(t, int64(0), txCount)
}

func TestRedeem_RewardNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	seedEarned(t, db, user, 100)

	_, err := svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: "4b1a2f9e-0000-4000-8000-000000000000"})
	assert.ErrorIs(t, err, ErrRewardNotFound)

	_, err = svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: "not-a-uuid"})
	assert.ErrorIs(t, err, ErrRewardNotFound)
}

func TestRedeem_LastUnitOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	bank := seedBank(t, db)
	reward := seedReward(t, db, bank, 10, 1)

	first := seedUser(t, db, model.RoleVerifiedUser)
	second := &model.User{
		Name:     "Second User",
		Email:    "second@example.com",
		Password: "hashed",
		Role:     model.RoleVerifiedUser,
		Status:   model.UserStatusApproved,
	}
	require.NoError(t, db.Create(second).Error)
	seedEarned(t, db, first, 50)
	seedEarned(t, db, second, 50)

	_, err := svc.Redeem(context.Background(), first.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	require.NoError(t, err)

	// The single unit is gone; the second buyer must not oversell it.
	_, err = svc.Redeem(context.Background(), second.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	assert.ErrorIs(t, err, ErrOutOfStock)

	var stored model.Reward
	require.NoError(t, db.First(&stored, "id = ?", reward.ID).Error)
	assert.Equal(t, 0, stored.Stock)

	var redemptionCount int64
	require.NoError(t, db.Model(&model.PointRedemption{}).Count(&redemptionCount).Error)
	assert.Equal(t, int64(1), redemptionCount)
}

func TestRedeem_NoDoubleSpend(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	reward := seedReward(t, db, bank, 80, 5)
	seedEarned(t, db, user, 100)

	result, err := svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 20, result.RemainingPoints)

	// 20 points left cannot cover a second 80-point redemption.
	_, err = svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	var insufficient *InsufficientPointsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 20, insufficient.CurrentPoints)
	assert.Equal(t, 80, insufficient.RequiredPoints)
}

func TestRedeem_PointsUsedSnapshot(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	reward := seedReward(t, db, bank, 30, 5)
	seedEarned(t, db, user, 100)

	result, err := svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	require.NoError(t, err)

	// Repricing after the fact must not rewrite history.
	require.NoError(t, db.Model(&model.Reward{}).Where("id = ?", reward.ID).Update("point_cost", 99).Error)

	var stored model.PointRedemption
	require.NoError(t, db.First(&stored, "id = ?", result.Redemption.ID).Error)
	assert.Equal(t, 30, stored.PointsUsed)
}

// failingAuditRepository refuses every write, forcing the surrounding
// transaction to abort at its last step.
type failingAuditRepository struct{}

func (failingAuditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return errors.New("audit log unavailable")
}

func (failingAuditRepository) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

func TestRedeem_RollsBackAllWritesOnFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPointService(
		repository.NewPointTransactionRepository(db),
		repository.NewRedemptionRepository(db),
		repository.NewRewardRepository(db),
		failingAuditRepository{},
		repository.NewTransactionManager(db),
		nil,
	)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	reward := seedReward(t, db, bank, 30, 5)
	seedEarned(t, db, user, 50)

	// The audit write is the final step of the unit, after the debit insert,
	// the redemption insert and the stock decrement. Its failure must undo
	// all three.
	_, err := svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	require.Error(t, err)

	var txCount, redemptionCount int64
	require.NoError(t, db.Model(&model.PointTransaction{}).Where("type = ?", model.PointTxRedeemed).Count(&txCount).Error)
	require.NoError(t, db.Model(&model.PointRedemption{}).Count(&redemptionCount).Error)
	assert.Equal(t, int64(0), txCount)
	assert.Equal(t, int64(0), redemptionCount)

	var stored model.Reward
	require.NoError(t, db.First(&stored, "id = ?", reward.ID).Error)
	assert.Equal(t, 5, stored.Stock)

	// The balance is untouched and a retry against a healthy unit succeeds.
	healthy := newTestPointService(db)
	overview, err := healthy.GetPoints(context.Background(), user.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 50, overview.CurrentPoints)

	result, err := healthy.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 20, result.RemainingPoints)
}

func TestListRedemptions(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	reward := seedReward(t, db, bank, 10, 3)
	seedEarned(t, db, user, 100)

	for i := 0; i < 3; i++ {
		_, err := svc.Redeem(context.Background(), user.ID.String(), RedeemRequest{RewardID: reward.ID.String()})
		require.NoError(t, err)
	}

	redemptions, total, err := svc.ListRedemptions(context.Background(), user.ID.String(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, redemptions, 2)
	require.NotNil(t, redemptions[0].Reward)
	assert.Equal(t, reward.Name, redemptions[0].Reward.Name)
}
