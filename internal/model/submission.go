package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubmissionStatus constants. PENDING is the only non-terminal state.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionAccepted SubmissionStatus = "ACCEPTED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// OlahanSubmission is a verified user's claim of having produced a
// waste-derived product, submitted to one bank for review. Acceptance sets
// PointsEarned and mints the matching EARNED ledger entry in the same
// transaction; rejection records a reason and mints nothing.
type OlahanSubmission struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BankSampahID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"bank_sampah_id"`
	BankSampah      *BankSampah      `gorm:"foreignKey:BankSampahID" json:"bank_sampah,omitempty"`
	Title           string           `gorm:"type:varchar(255);not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	Weight          decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"weight"` // kilograms
	Status          SubmissionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PointsEarned    int              `gorm:"type:int;not null;default:0" json:"points_earned"`
	RejectionReason string           `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (s *OlahanSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
