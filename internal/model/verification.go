package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationStatus constants. Same PENDING-only transition rule as
// submissions: a decided request can never be re-decided.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// VerificationRequest is the document-verification flow through which a USER
// is escalated to VERIFIED_USER. Approval flips the requesting user's role in
// the same transaction that decides the request.
type VerificationRequest struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DocumentURL     string             `gorm:"type:varchar(500);not null" json:"document_url"`
	Note            string             `gorm:"type:text" json:"note"`
	Status          VerificationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ReviewedBy      *uuid.UUID         `gorm:"type:uuid" json:"reviewed_by"`
	Reviewer        *User              `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewed_at"`
	RejectionReason string             `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (v *VerificationRequest) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
