package repository

import (
	"time"

	"trxmine/internal/domain"
	"trxmine/internal/models"

	"gorm.io/gorm"
)

type InvestmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) GetByID(id uint) (*models.InvestmentContract, error) {
	var c models.InvestmentContract
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *InvestmentRepository) ListActive(userID uint) ([]models.InvestmentContract, error) {
	var contracts []models.InvestmentContract
	err := r.db.Where("user_id = ? AND status = ?", userID, domain.InvestmentStatusActive).
		Order("start_date DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *InvestmentRepository) ListHistory(userID uint, limit int) ([]models.InvestmentContract, error) {
	var contracts []models.InvestmentContract
	err := r.db.Where("user_id = ?", userID).
		Order("start_date DESC").Limit(limit).
		Find(&contracts).Error
	return contracts, err
}

// InvestmentStats aggregates a user's open contracts.
type InvestmentStats struct {
	ActivePlans        int64 `json:"active_plans"`
	TotalInvestedMicro int64 `json:"total_invested_micro"`
}

func (r *InvestmentRepository) GetStats(userID uint) (*InvestmentStats, error) {
	var s InvestmentStats
	err := r.db.Model(&models.InvestmentContract{}).
		Where("user_id = ? AND status = ?", userID, domain.InvestmentStatusActive).
		Select("COUNT(*) AS active_plans, COALESCE(SUM(amount_micro), 0) AS total_invested_micro").
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListMaturedActive finds contracts past their end date that still hold
// locked principal; the settlement job walks this list.
func (r *InvestmentRepository) ListMaturedActive(now time.Time, limit int) ([]models.InvestmentContract, error) {
	var contracts []models.InvestmentContract
	err := r.db.Where("status = ? AND end_date <= ?", domain.InvestmentStatusActive, now).
		Order("end_date ASC").Limit(limit).
		Find(&contracts).Error
	return contracts, err
}
