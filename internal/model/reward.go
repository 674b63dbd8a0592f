package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward is a redeemable catalog item owned by exactly one waste bank.
// Stock is decremented only by a successful redemption; restocking is a
// plain admin update and never flows through the redemption path.
type Reward struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Image        string         `gorm:"type:varchar(500)" json:"image"`
	PointCost    int            `gorm:"type:int;not null" json:"point_cost"`
	Stock        int            `gorm:"type:int;not null;default:0" json:"stock"`
	BankSampahID uuid.UUID      `gorm:"type:uuid;not null;index" json:"bank_sampah_id"`
	BankSampah   *BankSampah    `gorm:"foreignKey:BankSampahID" json:"bank_sampah,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
