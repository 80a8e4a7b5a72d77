package models

import (
	"time"

	"gorm.io/gorm"
)

// Ledger holds one user's balances in micro-TRX (1 TRX = 1_000_000 micro).
// TotalMicro is always AvailableMicro + LockedMicro; the ledger mutator
// asserts that before every commit.
type Ledger struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalMicro     int64          `gorm:"not null;default:0" json:"total_micro"`
	LockedMicro    int64          `gorm:"not null;default:0" json:"locked_micro"`
	AvailableMicro int64          `gorm:"not null;default:0" json:"available_micro"`
	EarnedMicro    int64          `gorm:"not null;default:0" json:"earned_micro"`
	WithdrawnMicro int64          `gorm:"not null;default:0" json:"withdrawn_micro"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Ledger) TableName() string { return "ledgers" }
