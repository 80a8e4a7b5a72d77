package repository

import (
	"trxmine/internal/models"

	"gorm.io/gorm"
)

type VIPRepository struct {
	db *gorm.DB
}

func NewVIPRepository(db *gorm.DB) *VIPRepository {
	return &VIPRepository{db: db}
}

func (r *VIPRepository) GetByLevel(level int) (*models.VIPTier, error) {
	var t models.VIPTier
	if err := r.db.Where("level = ?", level).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *VIPRepository) ListAll() ([]models.VIPTier, error) {
	var tiers []models.VIPTier
	err := r.db.Order("level ASC").Find(&tiers).Error
	return tiers, err
}
