package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trxmine/internal/domain"
	"trxmine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Ledger{}, &models.TransactionRecord{}))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, availableMicro int64) uint {
	t.Helper()
	u := models.User{
		Username:        "miner",
		Email:           "miner@example.com",
		PasswordHash:    "x",
		PayPasswordHash: "x",
		Role:            domain.RoleUser,
		RefCode:         "REF000001",
		Status:          domain.UserStatusActive,
	}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&models.Ledger{
		UserID:         u.ID,
		TotalMicro:     availableMicro,
		AvailableMicro: availableMicro,
	}).Error)
	return u.ID
}

func loadLedger(t *testing.T, db *gorm.DB, userID uint) models.Ledger {
	t.Helper()
	var l models.Ledger
	require.NoError(t, db.Where("user_id = ?", userID).First(&l).Error)
	return l
}

func countRecords(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.TransactionRecord{}).Count(&n).Error)
	return n
}

func TestMutateDebitWritesOneRecord(t *testing.T) {
	db := newTestDB(t)
	userID := seedAccount(t, db, 100*MicroPerTRX)
	m := NewMutator(db, time.Second, 3)

	err := m.Mutate(context.Background(), userID, func(tx *Tx) error {
		if err := tx.Debit(30 * MicroPerTRX); err != nil {
			return err
		}
		tx.Append(&models.TransactionRecord{
			SenderID:    &userID,
			AmountMicro: -30 * MicroPerTRX,
			Type:        domain.TxTypeWithdrawal,
		})
		return nil
	})
	require.NoError(t, err)

	l := loadLedger(t, db, userID)
	assert.Equal(t, int64(70*MicroPerTRX), l.AvailableMicro)
	assert.Equal(t, int64(70*MicroPerTRX), l.TotalMicro)
	assert.Equal(t, int64(1), countRecords(t, db))

	var rec models.TransactionRecord
	require.NoError(t, db.First(&rec).Error)
	assert.Equal(t, domain.TxStatusCompleted, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestMutateInsufficientFundsLeavesNoTrace(t *testing.T) {
	db := newTestDB(t)
	userID := seedAccount(t, db, 50*MicroPerTRX)
	m := NewMutator(db, time.Second, 3)

	err := m.Mutate(context.Background(), userID, func(tx *Tx) error {
		if err := tx.Debit(80 * MicroPerTRX); err != nil {
			return err
		}
		tx.Append(&models.TransactionRecord{SenderID: &userID, AmountMicro: -80 * MicroPerTRX, Type: domain.TxTypeWithdrawal})
		return nil
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	l := loadLedger(t, db, userID)
	assert.Equal(t, int64(50*MicroPerTRX), l.AvailableMicro)
	assert.Zero(t, countRecords(t, db))
}

func TestMutateRollsBackOnClosureFailure(t *testing.T) {
	db := newTestDB(t)
	userID := seedAccount(t, db, 10*MicroPerTRX)
	m := NewMutator(db, time.Second, 3)

	boom := errors.New("downstream failure")
	err := m.Mutate(context.Background(), userID, func(tx *Tx) error {
		if err := tx.Credit(5 * MicroPerTRX); err != nil {
			return err
		}
		tx.Append(&models.TransactionRecord{ReceiverID: &userID, AmountMicro: 5 * MicroPerTRX, Type: domain.TxTypeDeposit})
		// dependent write that must also vanish on rollback
		if err := tx.DB.Create(&models.TransactionRecord{
			ReceiverID:  &userID,
			AmountMicro: 1,
			Type:        domain.TxTypeDeposit,
			Status:      domain.TxStatusCompleted,
			CreatedAt:   tx.Now(),
		}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	l := loadLedger(t, db, userID)
	assert.Equal(t, int64(10*MicroPerTRX), l.AvailableMicro)
	assert.Zero(t, countRecords(t, db))
}

func TestMutateRequiresAuditEvidence(t *testing.T) {
	db := newTestDB(t)
	userID := seedAccount(t, db, 10*MicroPerTRX)
	m := NewMutator(db, time.Second, 3)

	err := m.Mutate(context.Background(), userID, func(tx *Tx) error {
		return tx.Credit(1 * MicroPerTRX)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audit record")

	l := loadLedger(t, db, userID)
	assert.Equal(t, int64(10*MicroPerTRX), l.AvailableMicro)
}

func TestMutateRejectsOrphanRecord(t *testing.T) {
	db := newTestDB(t)
	userID := seedAccount(t, db, 10*MicroPerTRX)
	m := NewMutator(db, time.Second, 3)

	err := m.Mutate(context.Background(), userID, func(tx *Tx) error {
		if err := tx.Credit(1 * MicroPerTRX); err != nil {
			return err
		}
		tx.Append(&models.TransactionRecord{AmountMicro: 1 * MicroPerTRX, Type: domain.TxTypeDeposit})
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender or receiver")
}

func TestMutateTouchIsAuditEvidence(t *testing.T) {
	db := newTestDB(t)
	userID := seedAccount(t, db, 0)
	rec := models.TransactionRecord{
		SenderID:    &userID,
		AmountMicro: -5 * MicroPerTRX,
		Type:        domain.TxTypeWithdrawal,
		Status:      domain.TxStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.Create(&rec).Error)
	m := NewMutator(db, time.Second, 3)

	err := m.Mutate(context.Background(), userID, func(tx *Tx) error {
		tx.AddWithdrawn(5 * MicroPerTRX)
		rec.Status = domain.TxStatusCompleted
		tx.Touch(&rec)
		return nil
	})
	require.NoError(t, err)

	var got models.TransactionRecord
	require.NoError(t, db.First(&got, rec.ID).Error)
	assert.Equal(t, domain.TxStatusCompleted, got.Status)
	assert.Equal(t, int64(5*MicroPerTRX), loadLedger(t, db, userID).WithdrawnMicro)
}

func TestMutateLockKeepsTotalInvariant(t *testing.T) {
	db := newTestDB(t)
	userID := seedAccount(t, db, 100*MicroPerTRX)
	m := NewMutator(db, time.Second, 3)

	err := m.Mutate(context.Background(), userID, func(tx *Tx) error {
		if err := tx.LockFunds(40 * MicroPerTRX); err != nil {
			return err
		}
		tx.Append(&models.TransactionRecord{SenderID: &userID, AmountMicro: -40 * MicroPerTRX, Type: domain.TxTypeInvestment})
		return nil
	})
	require.NoError(t, err)

	l := loadLedger(t, db, userID)
	assert.Equal(t, int64(60*MicroPerTRX), l.AvailableMicro)
	assert.Equal(t, int64(40*MicroPerTRX), l.LockedMicro)
	assert.Equal(t, l.AvailableMicro+l.LockedMicro, l.TotalMicro)
}

func TestMutateUnknownAccount(t *testing.T) {
	db := newTestDB(t)
	m := NewMutator(db, time.Second, 3)

	err := m.Mutate(context.Background(), 9999, func(tx *Tx) error {
		return tx.Credit(1)
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Two concurrent withdrawals against one account where only one can be
// covered: exactly one succeeds, exactly one audit record lands.
func TestMutateConcurrentSameAccount(t *testing.T) {
	db := newTestDB(t)
	userID := seedAccount(t, db, 100*MicroPerTRX)
	m := NewMutator(db, time.Second, 3)

	withdraw := func() error {
		return m.Mutate(context.Background(), userID, func(tx *Tx) error {
			if err := tx.Debit(80 * MicroPerTRX); err != nil {
				return err
			}
			tx.Append(&models.TransactionRecord{SenderID: &userID, AmountMicro: -80 * MicroPerTRX, Type: domain.TxTypeWithdrawal})
			return nil
		})
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- withdraw()
		}()
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	l := loadLedger(t, db, userID)
	assert.Equal(t, int64(20*MicroPerTRX), l.AvailableMicro)
	assert.Equal(t, int64(1), countRecords(t, db))
}
