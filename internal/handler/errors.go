package handler

import (
	"errors"
	"net/http"

	"github.com/SeptianProject/sirasa-sub000/internal/service"
	"github.com/SeptianProject/sirasa-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps domain failures to their HTTP class. Anything not in the
// taxonomy is a 500 with a generic message — no internal detail leaves the
// boundary.
func respondError(c *gin.Context, err error) {
	var insufficient *service.InsufficientPointsError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":         "error",
			"status_code":    http.StatusBadRequest,
			"error":          insufficient.Error(),
			"currentPoints":  insufficient.CurrentPoints,
			"requiredPoints": insufficient.RequiredPoints,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBankSampahNotFound),
		errors.Is(err, service.ErrRewardNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrVerificationNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrSubmissionNotPending),
		errors.Is(err, service.ErrVerificationNotPending),
		errors.Is(err, service.ErrOpenVerificationExists),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidWeight):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Terjadi kesalahan pada server"))
	}
}
