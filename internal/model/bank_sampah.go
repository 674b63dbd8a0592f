package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankSampah is a local waste-processing bank. It owns a reward catalog and
// reviews waste-processing submissions from verified users.
type BankSampah struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Address     string         `gorm:"type:text" json:"address"`
	City        string         `gorm:"type:varchar(100);index" json:"city"`
	Phone       string         `gorm:"type:varchar(20)" json:"phone"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BankSampah) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
