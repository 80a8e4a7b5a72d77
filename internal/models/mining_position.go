package models

import (
	"time"
)

// MiningPosition is one purchased machine instance. Hashrate, price and the
// computed daily earning are snapshotted at purchase time; later catalog
// edits do not touch open positions. Positions are never deleted, only
// stopped.
type MiningPosition struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	MachineID         uint       `gorm:"not null;index" json:"machine_id"`
	Hashrate          int64      `gorm:"not null" json:"hashrate"`
	AmountMicro       int64      `gorm:"not null" json:"amount_micro"`
	DailyEarningMicro int64      `gorm:"not null" json:"daily_earning_micro"`
	TotalEarningMicro int64      `gorm:"not null;default:0" json:"total_earning_micro"`
	Status            string     `gorm:"size:20;not null;index" json:"status"`
	StartTime         time.Time  `gorm:"not null" json:"start_time"`
	EndTime           *time.Time `json:"end_time"`

	Machine Machine `gorm:"foreignKey:MachineID" json:"-"`
}

func (MiningPosition) TableName() string { return "mining_positions" }
