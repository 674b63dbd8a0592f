package service

import (
	"context"
	"testing"

	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAuditLogs_ActionFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAuditRepository(db)
	svc := NewAuditService(repo)
	user := seedUser(t, db, model.RoleVerifiedUser)

	require.NoError(t, repo.Log(context.Background(), &model.AuditLog{
		UserID:     &user.ID,
		Action:     model.ActionRedeemReward,
		EntityName: "Voucher Belanja",
	}))
	require.NoError(t, repo.Log(context.Background(), &model.AuditLog{
		UserID: &user.ID,
		Action: model.ActionCreateSubmission,
	}))

	all, total, err := svc.GetAuditLogs(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	redeems, total, err := svc.GetAuditLogs(context.Background(), model.ActionRedeemReward, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, redeems, 1)
	assert.Equal(t, model.ActionRedeemReward, redeems[0].Action)
	assert.Equal(t, user.Name, redeems[0].UserName)
}
