package models

import (
	"time"
)

// WalletAddress is a user's simulated TRON deposit address, generated once
// by the wallet collaborator and kept for the account's lifetime.
type WalletAddress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Address   string    `gorm:"size:64;not null" json:"address"`
	Network   string    `gorm:"size:32;not null;default:'NILE'" json:"network"`
	CreatedAt time.Time `json:"created_at"`
}

func (WalletAddress) TableName() string { return "wallet_addresses" }
