package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SeptianProject/sirasa-sub000/internal/database"
	"github.com/SeptianProject/sirasa-sub000/internal/middleware"
	"github.com/SeptianProject/sirasa-sub000/internal/model"
	"github.com/SeptianProject/sirasa-sub000/internal/repository"
	"github.com/SeptianProject/sirasa-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRouter wires the point and submission routes over a fresh named
// in-memory database, mirroring the wiring in cmd/api.
func setupRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	bankRepo := repository.NewBankSampahRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	pointTxRepo := repository.NewPointTransactionRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	pointService := service.NewPointService(pointTxRepo, redemptionRepo, rewardRepo, auditRepo, txManager, nil)
	submissionService := service.NewSubmissionService(submissionRepo, bankRepo, userRepo, pointTxRepo, auditRepo, txManager, nil)

	router := gin.New()
	NewPointHandler(pointService).RegisterRoutes(router.Group(""))
	NewSubmissionHandler(submissionService).RegisterRoutes(router.Group(""))
	return db, router
}

func seedAccount(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Account " + string(role),
		Email:    strings.ToLower(string(role)) + "@example.com",
		Password: "hashed",
		Role:     role,
		Status:   model.UserStatusApproved,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func bearerFor(t *testing.T, user *model.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestCreateSubmission_VerifiedRoleOnly(t *testing.T) {
	db, router := setupRouter(t)
	bank := &model.BankSampah{Name: "Bank Sampah Sejahtera", City: "Bandung"}
	require.NoError(t, db.Create(bank).Error)

	plain := seedAccount(t, db, model.RoleUser)
	verified := seedAccount(t, db, model.RoleVerifiedUser)

	body := `{"bank_sampah_id":"` + bank.ID.String() + `","title":"Kompos organik","weight":1.5}`

	// An unverified account cannot file submissions at all.
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, plain))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var count int64
	require.NoError(t, db.Model(&model.OlahanSubmission{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// The same payload goes through once the account is verified.
	req = httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, verified))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, db.Model(&model.OlahanSubmission{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListOwnSubmissions_PlainUserAllowed(t *testing.T) {
	db, router := setupRouter(t)
	plain := seedAccount(t, db, model.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	req.Header.Set("Authorization", bearerFor(t, plain))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPoints_AnyAuthenticatedRole(t *testing.T) {
	db, router := setupRouter(t)

	for _, role := range []model.Role{
		model.RoleUser,
		model.RoleVerifiedUser,
		model.RoleBankSampahAdmin,
		model.RoleSuperAdmin,
	} {
		account := seedAccount(t, db, role)

		req := httptest.NewRequest(http.MethodGet, "/api/points", nil)
		req.Header.Set("Authorization", bearerFor(t, account))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "role %s", role)
		assert.Contains(t, w.Body.String(), `"currentPoints":0`)
	}

	// Still closed to anonymous callers.
	req := httptest.NewRequest(http.MethodGet, "/api/points", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
