package database

import (
	"log"

	"github.com/SeptianProject/sirasa-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs AutoMigrate for every core model. Shared with the test setup
// so the sqlite test schema stays in lockstep with production.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.BankSampah{},
		&model.Reward{},
		&model.PointTransaction{},
		&model.PointRedemption{},
		&model.OlahanSubmission{},
		&model.VerificationRequest{},
		&model.AuditLog{},
	)
}
