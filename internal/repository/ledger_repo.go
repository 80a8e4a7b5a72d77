package repository

import (
	"trxmine/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository serves read paths only. Every write goes through the
// ledger mutator; nothing here mutates balances.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) GetByUserID(userID uint) (*models.Ledger, error) {
	var l models.Ledger
	if err := r.db.Where("user_id = ?", userID).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// SumTotalBalances aggregates platform-wide holdings for the admin
// dashboard.
func (r *LedgerRepository) SumTotalBalances() (int64, error) {
	var total int64
	err := r.db.Model(&models.Ledger{}).
		Select("COALESCE(SUM(total_micro), 0)").Scan(&total).Error
	return total, err
}
