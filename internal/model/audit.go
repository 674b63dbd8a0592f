package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateBankSampah = "CREATE_BANK_SAMPAH"
	ActionUpdateBankSampah = "UPDATE_BANK_SAMPAH"
	ActionDeleteBankSampah = "DELETE_BANK_SAMPAH"

	ActionCreateReward = "CREATE_REWARD"
	ActionUpdateReward = "UPDATE_REWARD"
	ActionDeleteReward = "DELETE_REWARD"

	ActionCreateSubmission = "CREATE_SUBMISSION"
	ActionAcceptSubmission = "ACCEPT_SUBMISSION"
	ActionRejectSubmission = "REJECT_SUBMISSION"

	ActionRedeemReward = "REDEEM_REWARD"

	ActionCreateVerification  = "CREATE_VERIFICATION_REQUEST"
	ActionApproveVerification = "APPROVE_VERIFICATION"
	ActionRejectVerification  = "REJECT_VERIFICATION"

	ActionCreateUser = "CREATE_USER"
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
