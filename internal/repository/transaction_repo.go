package repository

import (
	"time"

	"trxmine/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(id uint) (*models.TransactionRecord, error) {
	var t models.TransactionRecord
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListForUser returns records where the user is sender or receiver,
// newest first, paginated.
func (r *TransactionRepository) ListForUser(userID uint, page, limit int) ([]models.TransactionRecord, int64, error) {
	q := r.db.Model(&models.TransactionRecord{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []models.TransactionRecord
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&records).Error
	return records, total, err
}

// List filters by optional type and status for the admin console.
func (r *TransactionRepository) List(txType, status string, page, limit int) ([]models.TransactionRecord, int64, error) {
	q := r.db.Model(&models.TransactionRecord{})
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []models.TransactionRecord
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&records).Error
	return records, total, err
}

func (r *TransactionRepository) CountSince(t time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.TransactionRecord{}).
		Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

// SumCompletedWithdrawals totals the absolute value of settled outflows.
func (r *TransactionRepository) SumCompletedWithdrawals() (int64, error) {
	var total int64
	err := r.db.Model(&models.TransactionRecord{}).
		Where("type = ? AND status = ? AND amount_micro < 0", "withdrawal", "completed").
		Select("COALESCE(SUM(-amount_micro), 0)").Scan(&total).Error
	return total, err
}
