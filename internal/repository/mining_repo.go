package repository

import (
	"trxmine/internal/domain"
	"trxmine/internal/models"

	"gorm.io/gorm"
)

type MiningRepository struct {
	db *gorm.DB
}

func NewMiningRepository(db *gorm.DB) *MiningRepository {
	return &MiningRepository{db: db}
}

func (r *MiningRepository) ListActive(userID uint) ([]models.MiningPosition, error) {
	var positions []models.MiningPosition
	err := r.db.Preload("Machine").
		Where("user_id = ? AND status = ?", userID, domain.MiningStatusActive).
		Order("start_time DESC").
		Find(&positions).Error
	return positions, err
}

func (r *MiningRepository) ListHistory(userID uint, limit int) ([]models.MiningPosition, error) {
	var positions []models.MiningPosition
	err := r.db.Preload("Machine").
		Where("user_id = ?", userID).
		Order("start_time DESC").Limit(limit).
		Find(&positions).Error
	return positions, err
}

// ActiveStats is the per-user aggregate over open positions.
type ActiveStats struct {
	ActiveCount      int64 `json:"active_count"`
	TotalHashrate    int64 `json:"total_hashrate"`
	DailyIncomeMicro int64 `json:"daily_income_micro"`
	TotalEarnedMicro int64 `json:"total_earned_micro"`
}

func (r *MiningRepository) GetActiveStats(userID uint) (*ActiveStats, error) {
	var s ActiveStats
	err := r.db.Model(&models.MiningPosition{}).
		Where("user_id = ? AND status = ?", userID, domain.MiningStatusActive).
		Select("COUNT(*) AS active_count, " +
			"COALESCE(SUM(hashrate), 0) AS total_hashrate, " +
			"COALESCE(SUM(daily_earning_micro), 0) AS daily_income_micro, " +
			"COALESCE(SUM(total_earning_micro), 0) AS total_earned_micro").
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MiningRepository) CountActive() (int64, error) {
	var n int64
	err := r.db.Model(&models.MiningPosition{}).
		Where("status = ?", domain.MiningStatusActive).Count(&n).Error
	return n, err
}

// CountByMachine returns active and lifetime position counts for one
// catalog entry (admin machine listing).
func (r *MiningRepository) CountByMachine(machineID uint) (active, total int64, err error) {
	if err = r.db.Model(&models.MiningPosition{}).
		Where("machine_id = ? AND status = ?", machineID, domain.MiningStatusActive).
		Count(&active).Error; err != nil {
		return
	}
	err = r.db.Model(&models.MiningPosition{}).
		Where("machine_id = ?", machineID).Count(&total).Error
	return
}
