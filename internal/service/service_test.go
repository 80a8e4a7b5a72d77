package service

import (
	"fmt"
	"testing"
	"time"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPayPassword = "1234"

type testEnv struct {
	db      *gorm.DB
	mutator *ledger.Mutator
	nextID  int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Ledger{},
		&models.TransactionRecord{},
		&models.Machine{},
		&models.MiningPosition{},
		&models.InvestmentContract{},
		&models.VIPTier{},
		&models.WalletAddress{},
	))
	env := &testEnv{db: db, mutator: ledger.NewMutator(db, time.Second, 3)}
	env.seedTiers(t)
	return env
}

func (e *testEnv) seedTiers(t *testing.T) {
	t.Helper()
	tiers := []models.VIPTier{
		{Level: 0, Name: "Bronze", PriceMicro: 0, WithdrawalFeeBP: 500, MinWithdrawalMicro: 10 * ledger.MicroPerTRX, ReferralBonusBP: 500},
		{Level: 1, Name: "Silver", PriceMicro: 100 * ledger.MicroPerTRX, WithdrawalFeeBP: 300, MinWithdrawalMicro: 5 * ledger.MicroPerTRX, ReferralBonusBP: 800},
		{Level: 2, Name: "Gold", PriceMicro: 500 * ledger.MicroPerTRX, WithdrawalFeeBP: 100, MinWithdrawalMicro: 1 * ledger.MicroPerTRX, ReferralBonusBP: 1200},
	}
	require.NoError(t, e.db.Create(&tiers).Error)
}

func (e *testEnv) createUser(t *testing.T, availableMicro int64, vipLevel int) uint {
	t.Helper()
	e.nextID++
	hash, err := bcrypt.GenerateFromPassword([]byte(testPayPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{
		Username:        fmt.Sprintf("user%d", e.nextID),
		Email:           fmt.Sprintf("user%d@example.com", e.nextID),
		PasswordHash:    string(hash),
		PayPasswordHash: string(hash),
		Role:            domain.RoleUser,
		RefCode:         fmt.Sprintf("REF%06d", e.nextID),
		VIPLevel:        vipLevel,
		Status:          domain.UserStatusActive,
	}
	require.NoError(t, e.db.Create(&u).Error)
	require.NoError(t, e.db.Create(&models.Ledger{
		UserID:         u.ID,
		TotalMicro:     availableMicro,
		AvailableMicro: availableMicro,
	}).Error)
	return u.ID
}

func (e *testEnv) createMachine(t *testing.T, hashrate, priceMicro int64, vipReq int, stock int64) uint {
	t.Helper()
	m := models.Machine{
		Name:           fmt.Sprintf("Miner %d", hashrate),
		Hashrate:       hashrate,
		PriceMicro:     priceMicro,
		VIPRequirement: vipReq,
		Stock:          stock,
		Status:         domain.MachineStatusActive,
	}
	require.NoError(t, e.db.Create(&m).Error)
	return m.ID
}

func (e *testEnv) ledgerOf(t *testing.T, userID uint) models.Ledger {
	t.Helper()
	var l models.Ledger
	require.NoError(t, e.db.Where("user_id = ?", userID).First(&l).Error)
	return l
}

func (e *testEnv) recordsOf(t *testing.T, userID uint) []models.TransactionRecord {
	t.Helper()
	var records []models.TransactionRecord
	require.NoError(t, e.db.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("id ASC").Find(&records).Error)
	return records
}
