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

func newTestVerificationService(db *gorm.DB) VerificationService {
	return NewVerificationService(
		repository.NewVerificationRepository(db),
		repository.NewUserRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestCreateVerificationRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestVerificationService(db)
	user := seedUser(t, db, model.RoleUser)

	resp, err := svc.CreateRequest(context.Background(), user.ID.String(), CreateVerificationRequest{
		DocumentURL: "https://cdn.example.com/ktp.jpg",
		Note:        "Warga RT 05",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.VerificationPending), resp.Status)

	// Only one open request per user.
	_, err = svc.CreateRequest(context.Background(), user.ID.String(), CreateVerificationRequest{
		DocumentURL: "https://cdn.example.com/ktp2.jpg",
	})
	assert.ErrorIs(t, err, ErrOpenVerificationExists)
}

func TestApproveVerification_EscalatesRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestVerificationService(db)
	user := seedUser(t, db, model.RoleUser)
	reviewer := seedUser(t, db, model.RoleSuperAdmin)

	created, err := svc.CreateRequest(context.Background(), user.ID.String(), CreateVerificationRequest{
		DocumentURL: "https://cdn.example.com/ktp.jpg",
	})
	require.NoError(t, err)

	approved, err := svc.ApproveRequest(context.Background(), reviewer.ID.String(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.VerificationApproved), approved.Status)
	require.NotNil(t, approved.ReviewedAt)

	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, model.RoleVerifiedUser, stored.Role)

	// A decided request is terminal.
	_, err = svc.ApproveRequest(context.Background(), reviewer.ID.String(), created.ID)
	assert.ErrorIs(t, err, ErrVerificationNotPending)
	_, err = svc.RejectRequest(context.Background(), reviewer.ID.String(), created.ID, RejectVerificationRequest{RejectionReason: "dokumen buram"})
	assert.ErrorIs(t, err, ErrVerificationNotPending)
}

func TestRejectVerification_KeepsRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestVerificationService(db)
	user := seedUser(t, db, model.RoleUser)
	reviewer := seedUser(t, db, model.RoleSuperAdmin)

	created, err := svc.CreateRequest(context.Background(), user.ID.String(), CreateVerificationRequest{
		DocumentURL: "https://cdn.example.com/ktp.jpg",
	})
	require.NoError(t, err)

	rejected, err := svc.RejectRequest(context.Background(), reviewer.ID.String(), created.ID, RejectVerificationRequest{RejectionReason: "dokumen buram"})
	require.NoError(t, err)
	assert.Equal(t, string(model.VerificationRejected), rejected.Status)
	assert.Equal(t, "dokumen buram", rejected.RejectionReason)

	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, model.RoleUser, stored.Role)

	// Rejection closes the request, so the user may file again.
	_, err = svc.CreateRequest(context.Background(), user.ID.String(), CreateVerificationRequest{
		DocumentURL: "https://cdn.example.com/ktp-v2.jpg",
	})
	assert.NoError(t, err)
}

func TestListVerifications_InvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestVerificationService(db)

	_, _, err := svc.ListRequests(context.Background(), "BOGUS", 1, 20)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
