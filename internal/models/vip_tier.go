package models

import (
	"time"
)

// VIPTier is reference data. WithdrawalFeeBP and ReferralBonusBP are basis
// points; MinWithdrawalMicro gates the withdrawal amount for accounts at
// this tier.
type VIPTier struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Level              int       `gorm:"uniqueIndex;not null" json:"level"`
	Name               string    `gorm:"size:32;not null" json:"name"`
	PriceMicro         int64     `gorm:"not null" json:"price_micro"`
	Features           string    `gorm:"size:512" json:"features"` // comma-separated feature list
	WithdrawalFeeBP    int64     `gorm:"not null" json:"withdrawal_fee_bp"`
	MinWithdrawalMicro int64     `gorm:"not null" json:"min_withdrawal_micro"`
	ReferralBonusBP    int64     `gorm:"not null" json:"referral_bonus_bp"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (VIPTier) TableName() string { return "vip_tiers" }
