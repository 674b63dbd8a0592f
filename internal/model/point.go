package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointTransactionType determines the sign a transaction contributes to the
// balance. Amount itself is always stored non-negative.
type PointTransactionType string

const (
	PointTxEarned   PointTransactionType = "EARNED"
	PointTxRedeemed PointTransactionType = "REDEEMED"
)

// PointTransaction is one immutable entry of the append-only point ledger.
// Rows are only ever inserted — by submission acceptance (EARNED) or by
// redemption (REDEEMED) — never updated or deleted, so the model carries no
// UpdatedAt/DeletedAt.
type PointTransaction struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User                `gorm:"foreignKey:UserID" json:"-"`
	Amount      int                  `gorm:"type:int;not null" json:"amount"`
	Type        PointTransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	Description string               `gorm:"type:text" json:"description"`
	CreatedAt   time.Time            `gorm:"index" json:"created_at"`
}

func (t *PointTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// RedemptionStatus is the fulfillment state of a redemption request.
// PENDING → COMPLETED/CANCELLED is driven by the bank-side fulfillment
// workflow; this service only ever creates PENDING rows.
type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "PENDING"
	RedemptionCompleted RedemptionStatus = "COMPLETED"
	RedemptionCancelled RedemptionStatus = "CANCELLED"
)

// PointRedemption records a reward being claimed. PointsUsed snapshots the
// reward's cost at redemption time; later price changes must not rewrite it.
type PointRedemption struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User            `gorm:"foreignKey:UserID" json:"-"`
	RewardID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"reward_id"`
	Reward     *Reward          `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
	PointsUsed int              `gorm:"type:int;not null" json:"points_used"`
	Status     RedemptionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (r *PointRedemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
