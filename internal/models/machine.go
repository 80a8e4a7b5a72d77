package models

import (
	"time"

	"gorm.io/gorm"
)

// Machine is a catalog entry, mutated by admins only. Stock of -1 means
// unlimited; finite stock is decremented inside the purchase mutation.
type Machine struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:64;not null" json:"name"`
	Hashrate         int64          `gorm:"not null" json:"hashrate"`
	PriceMicro       int64          `gorm:"not null" json:"price_micro"`
	PowerWatts       int64          `gorm:"not null;default:0" json:"power_watts"`
	MaintenanceMicro int64          `gorm:"not null;default:0" json:"maintenance_micro"`
	VIPRequirement   int            `gorm:"column:vip_requirement;not null;default:0" json:"vip_requirement"`
	Stock            int64          `gorm:"not null;default:-1" json:"stock"`
	Description      string         `gorm:"size:255" json:"description"`
	Status           string         `gorm:"size:20;not null;index;default:'active'" json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Machine) TableName() string { return "machines" }
