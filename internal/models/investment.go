package models

import (
	"time"
)

// InvestmentContract locks principal for a fixed term at a fixed daily
// return. Plan terms are snapshotted at entry.
type InvestmentContract struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"user_id"`
	PlanName           string    `gorm:"size:32;not null" json:"plan_name"`
	AmountMicro        int64     `gorm:"not null" json:"amount_micro"`
	DailyReturnBP      int64     `gorm:"not null" json:"daily_return_bp"`
	ContractDays       int       `gorm:"not null" json:"contract_days"`
	EarnedMicro        int64     `gorm:"not null;default:0" json:"earned_micro"`
	ExpectedTotalMicro int64     `gorm:"not null" json:"expected_total_micro"`
	Status             string    `gorm:"size:20;not null;index" json:"status"`
	StartDate          time.Time `gorm:"not null" json:"start_date"`
	EndDate            time.Time `gorm:"not null" json:"end_date"`
}

func (InvestmentContract) TableName() string { return "investment_contracts" }
