package models

import (
	"time"

	"trxmine/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Username        string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255;not null" json:"-"`
	PayPasswordHash string         `gorm:"size:255;not null" json:"-"` // separate credential for money-moving requests
	Role            string         `gorm:"size:20;not null;index;default:'USER'" json:"role"`
	RefCode         string         `gorm:"uniqueIndex;size:20;not null" json:"ref_code"`
	RefBy           *uint          `gorm:"index" json:"ref_by"` // nil when not referred
	VIPLevel        int            `gorm:"column:vip_level;not null;default:0" json:"vip_level"`
	Status          string         `gorm:"size:20;not null;index;default:'active'" json:"status"`
	TgUsername      string         `gorm:"size:64" json:"tg_username"`
	TgVerified      bool           `gorm:"default:false" json:"tg_verified"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool  { return u.Role == domain.RoleAdmin }
func (u *User) IsActive() bool { return u.Status == domain.UserStatusActive }
