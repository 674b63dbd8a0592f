package service

import (
	"context"
	"testing"

	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestSubmissionService(db *gorm.DB) SubmissionService {
	return NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewBankSampahRepository(db),
		repository.NewUserRepository(db),
		repository.NewPointTransactionRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func seedBankAdmin(t *testing.T, db *gorm.DB, bank *model.BankSampah, email string) *model.User {
	t.Helper()
	admin := &model.User{
		Name:         "Bank Admin",
		Email:        email,
		Password:     "hashed",
		Role:         model.RoleBankSampahAdmin,
		Status:       model.UserStatusApproved,
		BankSampahID: &bank.ID,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func TestCreateSubmission(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubmissionService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)

	resp, err := svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Kompos organik",
		Description:  "Kompos dari sampah dapur",
		Weight:       decimal.NewFromFloat(2.5),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.SubmissionPending), resp.Status)
	assert.Equal(t, "2.5", resp.Weight)
	assert.Equal(t, 0, resp.PointsEarned)
	assert.Equal(t, bank.Name, resp.BankSampahName)
}

func TestCreateSubmission_InvalidWeight(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubmissionService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)

	_, err := svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Kompos organik",
		Weight:       decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Kompos organik",
		Weight:       decimal.NewFromFloat(-1.0),
	})
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestCreateSubmission_UnknownBank(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubmissionService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)

	_, err := svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: "4b1a2f9e-0000-4000-8000-000000000000",
		Title:        "Kompos organik",
		Weight:       decimal.NewFromFloat(1.0),
	})
	assert.ErrorIs(t, err, ErrBankSampahNotFound)
}

func TestAcceptSubmission_MintsPoints(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubmissionService(db)
	pointSvc := newTestPointService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	admin := seedBankAdmin(t, db, bank, "admin@example.com")

	created, err := svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Kerajinan plastik",
		Weight:       decimal.NewFromFloat(3.0),
	})
	require.NoError(t, err)

	accepted, err := svc.AcceptSubmission(context.Background(), admin.ID.String(), created.ID, AcceptSubmissionRequest{PointsEarned: 40})
	require.NoError(t, err)
	assert.Equal(t, string(model.SubmissionAccepted), accepted.Status)
	assert.Equal(t, 40, accepted.PointsEarned)

	// Acceptance minted exactly one EARNED entry and the balance follows.
	overview, err := pointSvc.GetPoints(context.Background(), user.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 40, overview.CurrentPoints)

	var txCount int64
	require.NoError(t, db.Model(&model.PointTransaction{}).Where("user_id = ? AND type = ?", user.ID, model.PointTxEarned).Count(&txCount).Error)
	assert.Equal(t, int64(1), txCount)
}

func TestAcceptSubmission_AlreadyDecided(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubmissionService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	admin := seedBankAdmin(t, db, bank, "admin@example.com")

	created, err := svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Kerajinan plastik",
		Weight:       decimal.NewFromFloat(3.0),
	})
	require.NoError(t, err)

	_, err = svc.AcceptSubmission(context.Background(), admin.ID.String(), created.ID, AcceptSubmissionRequest{PointsEarned: 40})
	require.NoError(t, err)

	// Deciding again must fail and must not mint a second time.
	_, err = svc.AcceptSubmission(context.Background(), admin.ID.String(), created.ID, AcceptSubmissionRequest{PointsEarned: 40})
	assert.ErrorIs(t, err, ErrSubmissionNotPending)

	_, err = svc.RejectSubmission(context.Background(), admin.ID.String(), created.ID, RejectSubmissionRequest{RejectionReason: "terlambat"})
	assert.ErrorIs(t, err, ErrSubmissionNotPending)

	var txCount int64
	require.NoError(t, db.Model(&model.PointTransaction{}).Where("user_id = ?", user.ID).Count(&txCount).Error)
	assert.Equal(t, int64(1), txCount)
}

func TestRejectSubmission_NoMint(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubmissionService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	admin := seedBankAdmin(t, db, bank, "admin@example.com")

	created, err := svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Kerajinan plastik",
		Weight:       decimal.NewFromFloat(3.0),
	})
	require.NoError(t, err)

	rejected, err := svc.RejectSubmission(context.Background(), admin.ID.String(), created.ID, RejectSubmissionRequest{RejectionReason: "berat tidak sesuai"})
	require.NoError(t, err)
	assert.Equal(t, string(model.SubmissionRejected), rejected.Status)
	assert.Equal(t, "berat tidak sesuai", rejected.RejectionReason)

	var txCount int64
	require.NoError(t, db.Model(&model.PointTransaction{}).Where("user_id = ?", user.ID).Count(&txCount).Error)
	assert.Equal(t, int64(0), txCount)
}

func TestAcceptSubmission_OtherBankForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubmissionService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)

	otherBank := &model.BankSampah{Name: "Bank Sampah Lain", City: "Jakarta"}
	require.NoError(t, db.Create(otherBank).Error)
	otherAdmin := seedBankAdmin(t, db, otherBank, "other-admin@example.com")

	created, err := svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Kerajinan plastik",
		Weight:       decimal.NewFromFloat(3.0),
	})
	require.NoError(t, err)

	_, err = svc.AcceptSubmission(context.Background(), otherAdmin.ID.String(), created.ID, AcceptSubmissionRequest{PointsEarned: 40})
	assert.ErrorIs(t, err, ErrForbidden)

	// Still pending, still undecidable by outsiders, decidable by the owner.
	var stored model.OlahanSubmission
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, model.SubmissionPending, stored.Status)
}

func TestListSubmissions_FilterByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubmissionService(db)
	user := seedUser(t, db, model.RoleVerifiedUser)
	bank := seedBank(t, db)
	admin := seedBankAdmin(t, db, bank, "admin@example.com")

	first, err := svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Kompos",
		Weight:       decimal.NewFromFloat(1.0),
	})
	require.NoError(t, err)
	_, err = svc.CreateSubmission(context.Background(), user.ID.String(), CreateSubmissionRequest{
		BankSampahID: bank.ID.String(),
		Title:        "Ecobrick",
		Weight:       decimal.NewFromFloat(2.0),
	})
	require.NoError(t, err)

	_, err = svc.AcceptSubmission(context.Background(), admin.ID.String(), first.ID, AcceptSubmissionRequest{PointsEarned: 10})
	require.NoError(t, err)

	pending, total, err := svc.ListOwnSubmissions(context.Background(), user.ID.String(), SubmissionFilter{Status: model.SubmissionPending, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "Ecobrick", pending[0].Title)

	// Bank queue sees both regardless of requester.
	all, total, err := svc.ListBankSubmissions(context.Background(), admin.ID.String(), SubmissionFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}
