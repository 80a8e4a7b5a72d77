package service

import (
	"context"
	"testing"
	"time"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseDebitsAndOpensPositions(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 200*ledger.MicroPerTRX, 0)
	machineID := env.createMachine(t, 100, 50*ledger.MicroPerTRX, 0, domain.UnlimitedStock)
	svc := NewMiningService(env.mutator)

	res, err := svc.Purchase(context.Background(), userID, machineID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(100*ledger.MicroPerTRX), res.TotalPaidMicro)
	assert.Equal(t, int64(2000), res.DailyEarningMicro) // 2 x 100 hashrate x 0.001 TRX
	assert.Equal(t, 2, res.Quantity)

	l := env.ledgerOf(t, userID)
	assert.Equal(t, int64(100*ledger.MicroPerTRX), l.AvailableMicro)
	assert.Equal(t, l.AvailableMicro+l.LockedMicro, l.TotalMicro)

	var positions []models.MiningPosition
	require.NoError(t, env.db.Where("user_id = ?", userID).Find(&positions).Error)
	require.Len(t, positions, 2)
	for _, p := range positions {
		assert.Equal(t, int64(100), p.Hashrate)
		assert.Equal(t, int64(50*ledger.MicroPerTRX), p.AmountMicro)
		assert.Equal(t, int64(1000), p.DailyEarningMicro)
		assert.Equal(t, domain.MiningStatusActive, p.Status)
	}

	records := env.recordsOf(t, userID)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TxTypeMachinePurchase, records[0].Type)
	assert.Equal(t, int64(-100*ledger.MicroPerTRX), records[0].AmountMicro)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 10*ledger.MicroPerTRX, 0)
	machineID := env.createMachine(t, 100, 50*ledger.MicroPerTRX, 0, domain.UnlimitedStock)
	svc := NewMiningService(env.mutator)

	_, err := svc.Purchase(context.Background(), userID, machineID, 1)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Empty(t, env.recordsOf(t, userID))
}

func TestPurchaseVIPGate(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 1000*ledger.MicroPerTRX, 0)
	machineID := env.createMachine(t, 500, 200*ledger.MicroPerTRX, 1, domain.UnlimitedStock)
	svc := NewMiningService(env.mutator)

	_, err := svc.Purchase(context.Background(), userID, machineID, 1)
	assert.ErrorIs(t, err, ledger.ErrPreconditionFailed)
}

func TestPurchaseFiniteStock(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 1000*ledger.MicroPerTRX, 0)
	machineID := env.createMachine(t, 100, 50*ledger.MicroPerTRX, 0, 3)
	svc := NewMiningService(env.mutator)

	_, err := svc.Purchase(context.Background(), userID, machineID, 5)
	assert.ErrorIs(t, err, ledger.ErrPreconditionFailed)

	_, err = svc.Purchase(context.Background(), userID, machineID, 3)
	require.NoError(t, err)

	var m models.Machine
	require.NoError(t, env.db.First(&m, machineID).Error)
	assert.Equal(t, int64(0), m.Stock)
}

func TestPurchaseInactiveMachine(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 1000*ledger.MicroPerTRX, 0)
	machineID := env.createMachine(t, 100, 50*ledger.MicroPerTRX, 0, domain.UnlimitedStock)
	require.NoError(t, env.db.Model(&models.Machine{}).Where("id = ?", machineID).
		Update("status", domain.MachineStatusInactive).Error)
	svc := NewMiningService(env.mutator)

	_, err := svc.Purchase(context.Background(), userID, machineID, 1)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

// 100 hashrate running 24 hours earns exactly 0.001 TRX.
func TestStopSettlesLinearAccrual(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 0, 0)
	machineID := env.createMachine(t, 100, 50*ledger.MicroPerTRX, 0, domain.UnlimitedStock)
	pos := models.MiningPosition{
		UserID:            userID,
		MachineID:         machineID,
		Hashrate:          100,
		AmountMicro:       50 * ledger.MicroPerTRX,
		DailyEarningMicro: 1000,
		Status:            domain.MiningStatusActive,
		StartTime:         time.Now().UTC().Add(-24 * time.Hour),
	}
	require.NoError(t, env.db.Create(&pos).Error)
	svc := NewMiningService(env.mutator)

	res, err := svc.Stop(context.Background(), userID, pos.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.EarnedMicro)
	assert.InDelta(t, 24.0, res.DurationHours, 0.1)

	l := env.ledgerOf(t, userID)
	assert.Equal(t, int64(1000), l.AvailableMicro)
	assert.Equal(t, int64(1000), l.EarnedMicro)

	var got models.MiningPosition
	require.NoError(t, env.db.First(&got, pos.ID).Error)
	assert.Equal(t, domain.MiningStatusStopped, got.Status)
	assert.NotNil(t, got.EndTime)
	assert.Equal(t, int64(1000), got.TotalEarningMicro)

	records := env.recordsOf(t, userID)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TxTypeMiningEarnings, records[0].Type)
}

func TestStopRejectsForeignPosition(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, 0, 0)
	other := env.createUser(t, 0, 0)
	machineID := env.createMachine(t, 100, 50*ledger.MicroPerTRX, 0, domain.UnlimitedStock)
	pos := models.MiningPosition{
		UserID: owner, MachineID: machineID, Hashrate: 100,
		AmountMicro: 50 * ledger.MicroPerTRX, DailyEarningMicro: 1000,
		Status: domain.MiningStatusActive, StartTime: time.Now().UTC(),
	}
	require.NoError(t, env.db.Create(&pos).Error)
	svc := NewMiningService(env.mutator)

	_, err := svc.Stop(context.Background(), other, pos.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStopAllAggregatesOneRecord(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 0, 0)
	machineID := env.createMachine(t, 100, 50*ledger.MicroPerTRX, 0, domain.UnlimitedStock)
	start := time.Now().UTC().Add(-24 * time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, env.db.Create(&models.MiningPosition{
			UserID: userID, MachineID: machineID, Hashrate: 100,
			AmountMicro: 50 * ledger.MicroPerTRX, DailyEarningMicro: 1000,
			Status: domain.MiningStatusActive, StartTime: start,
		}).Error)
	}
	svc := NewMiningService(env.mutator)

	res, err := svc.StopAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.PositionsStopped)
	assert.Equal(t, int64(3000), res.TotalEarnedMicro)

	records := env.recordsOf(t, userID)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TxTypeMiningEarnAll, records[0].Type)
	assert.Equal(t, int64(3000), records[0].AmountMicro)

	var active int64
	require.NoError(t, env.db.Model(&models.MiningPosition{}).
		Where("user_id = ? AND status = ?", userID, domain.MiningStatusActive).
		Count(&active).Error)
	assert.Zero(t, active)
}

func TestStopAllWithoutActiveMining(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 0, 0)
	svc := NewMiningService(env.mutator)

	_, err := svc.StopAll(context.Background(), userID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
