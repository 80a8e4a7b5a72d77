package repository

import (
	"time"

	"trxmine/internal/domain"
	"trxmine/internal/models"

	"gorm.io/gorm"
)

// AdminRepository serves the admin console's listing and stats queries.
// Joins are explicit one-query-plus-lookup.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// UserRow is one admin user-listing entry with its financial summary.
type UserRow struct {
	UserID         uint      `json:"user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	VIPLevel       int       `json:"vip_level"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	TotalMicro     int64     `json:"total_micro"`
	AvailableMicro int64     `json:"available_micro"`
	ActiveMiners   int64     `json:"active_miners"`
}

func (r *AdminRepository) ListUsers(search string, page, limit int) ([]UserRow, int64, error) {
	q := r.db.Model(&models.User{}).Where("role = ?", domain.RoleUser)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("username LIKE ? OR email LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	if len(users) == 0 {
		return []UserRow{}, total, nil
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	var ledgers []models.Ledger
	if err := r.db.Where("user_id IN ?", ids).Find(&ledgers).Error; err != nil {
		return nil, 0, err
	}
	ledgerByUser := make(map[uint]models.Ledger, len(ledgers))
	for _, l := range ledgers {
		ledgerByUser[l.UserID] = l
	}

	type minerCount struct {
		UserID uint
		N      int64
	}
	var counts []minerCount
	if err := r.db.Model(&models.MiningPosition{}).
		Where("user_id IN ? AND status = ?", ids, domain.MiningStatusActive).
		Select("user_id, COUNT(*) AS n").Group("user_id").
		Scan(&counts).Error; err != nil {
		return nil, 0, err
	}
	minersByUser := make(map[uint]int64, len(counts))
	for _, c := range counts {
		minersByUser[c.UserID] = c.N
	}

	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		l := ledgerByUser[u.ID]
		rows = append(rows, UserRow{
			UserID:         u.ID,
			Username:       u.Username,
			Email:          u.Email,
			VIPLevel:       u.VIPLevel,
			Status:         u.Status,
			CreatedAt:      u.CreatedAt,
			TotalMicro:     l.TotalMicro,
			AvailableMicro: l.AvailableMicro,
			ActiveMiners:   minersByUser[u.ID],
		})
	}
	return rows, total, nil
}

// UserDetail expands one account with its ledger and activity totals.
type UserDetail struct {
	User           models.User   `json:"user"`
	Ledger         models.Ledger `json:"ledger"`
	TotalMiners    int64         `json:"total_miners"`
	TotalReferrals int64         `json:"total_referrals"`
	DepositsMicro  int64         `json:"deposits_micro"`
	WithdrawnMicro int64         `json:"withdrawn_micro"`
}

func (r *AdminRepository) GetUserDetail(userID uint) (*UserDetail, error) {
	var d UserDetail
	if err := r.db.First(&d.User, userID).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("user_id = ?", userID).First(&d.Ledger).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.MiningPosition{}).
		Where("user_id = ?", userID).Count(&d.TotalMiners).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.User{}).
		Where("ref_by = ?", userID).Count(&d.TotalReferrals).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.TransactionRecord{}).
		Where("receiver_id = ? AND amount_micro > 0", userID).
		Select("COALESCE(SUM(amount_micro), 0)").Scan(&d.DepositsMicro).Error; err != nil {
		return nil, err
	}
	err := r.db.Model(&models.TransactionRecord{}).
		Where("sender_id = ? AND amount_micro < 0", userID).
		Select("COALESCE(SUM(-amount_micro), 0)").Scan(&d.WithdrawnMicro).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveMining      int64 `json:"active_mining"`
	TotalBalanceMicro int64 `json:"total_balance_micro"`
	TodayTransactions int64 `json:"today_transactions"`
	NewUsersToday     int64 `json:"new_users_today"`
	WithdrawalsMicro  int64 `json:"withdrawals_micro"`
}

func (r *AdminRepository) GetDashboardStats(now time.Time) (*DashboardStats, error) {
	var s DashboardStats
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if err := r.db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.MiningPosition{}).
		Where("status = ?", domain.MiningStatusActive).Count(&s.ActiveMining).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Ledger{}).
		Select("COALESCE(SUM(total_micro), 0)").Scan(&s.TotalBalanceMicro).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.TransactionRecord{}).
		Where("created_at >= ?", midnight).Count(&s.TodayTransactions).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.User{}).
		Where("created_at >= ?", midnight).Count(&s.NewUsersToday).Error; err != nil {
		return nil, err
	}
	err := r.db.Model(&models.TransactionRecord{}).
		Where("type = ? AND status = ? AND amount_micro < 0",
			domain.TxTypeWithdrawal, domain.TxStatusCompleted).
		Select("COALESCE(SUM(-amount_micro), 0)").Scan(&s.WithdrawalsMicro).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
