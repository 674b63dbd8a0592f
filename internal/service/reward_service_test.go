package service

import (
	"context"
	"testing"

	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRewardService(db *gorm.DB) RewardService {
	return NewRewardService(
		repository.NewRewardRepository(db),
		repository.NewUserRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestCreateReward_BoundToAdminBank(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRewardService(db)
	bank := seedBank(t, db)
	admin := seedBankAdmin(t, db, bank, "admin@example.com")

	reward, err := svc.CreateReward(context.Background(), admin.ID.String(), CreateRewardRequest{
		Name:      "Voucher Belanja",
		PointCost: 50,
		Stock:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, bank.ID.String(), reward.BankSampahID)
	assert.Equal(t, 10, reward.Stock)

	// A plain user cannot manage the catalog.
	user := seedUser(t, db, model.RoleVerifiedUser)
	_, err = svc.CreateReward(context.Background(), user.ID.String(), CreateRewardRequest{
		Name:      "Voucher Lain",
		PointCost: 10,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateReward_OtherBankForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRewardService(db)
	bank := seedBank(t, db)
	admin := seedBankAdmin(t, db, bank, "admin@example.com")

	otherBank := &model.BankSampah{Name: "Bank Sampah Lain", City: "Jakarta"}
	require.NoError(t, db.Create(otherBank).Error)
	otherAdmin := seedBankAdmin(t, db, otherBank, "other-admin@example.com")

	created, err := svc.CreateReward(context.Background(), admin.ID.String(), CreateRewardRequest{
		Name:      "Voucher Belanja",
		PointCost: 50,
		Stock:     10,
	})
	require.NoError(t, err)

	newStock := 99
	_, err = svc.UpdateReward(context.Background(), otherAdmin.ID.String(), created.ID, UpdateRewardRequest{Stock: &newStock})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteReward(context.Background(), otherAdmin.ID.String(), created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateReward_Restock(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRewardService(db)
	bank := seedBank(t, db)
	admin := seedBankAdmin(t, db, bank, "admin@example.com")

	created, err := svc.CreateReward(context.Background(), admin.ID.String(), CreateRewardRequest{
		Name:      "Voucher Belanja",
		PointCost: 50,
		Stock:     0,
	})
	require.NoError(t, err)

	newStock := 25
	updated, err := svc.UpdateReward(context.Background(), admin.ID.String(), created.ID, UpdateRewardRequest{Stock: &newStock})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Stock)
	// Untouched fields survive a partial update.
	assert.Equal(t, 50, updated.PointCost)
	assert.Equal(t, "Voucher Belanja", updated.Name)
}

func TestDeleteReward_GoneFromCatalog(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestRewardService(db)
	bank := seedBank(t, db)
	admin := seedBankAdmin(t, db, bank, "admin@example.com")

	created, err := svc.CreateReward(context.Background(), admin.ID.String(), CreateRewardRequest{
		Name:      "Voucher Belanja",
		PointCost: 50,
		Stock:     10,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReward(context.Background(), admin.ID.String(), created.ID))

	_, err = svc.GetRewardByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrRewardNotFound)

	_, total, err := svc.ListRewards(context.Background(), RewardListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
