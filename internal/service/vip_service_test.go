package service

import (
	"context"
	"testing"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgradeSequential(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 150*ledger.MicroPerTRX, 0)
	svc := NewVIPService(env.mutator)

	res, err := svc.Upgrade(context.Background(), userID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewTier)
	assert.Equal(t, "Silver", res.TierName)
	assert.Equal(t, int64(100*ledger.MicroPerTRX), res.AmountPaidMicro)

	var u models.User
	require.NoError(t, env.db.First(&u, userID).Error)
	assert.Equal(t, 1, u.VIPLevel)

	l := env.ledgerOf(t, userID)
	assert.Equal(t, int64(50*ledger.MicroPerTRX), l.AvailableMicro)

	records := env.recordsOf(t, userID)
	require.Len(t, records, 1)
	assert.Equal(t, "vip_upgrade_silver", records[0].Type)
}

func TestUpgradeSkippingTier(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 1000*ledger.MicroPerTRX, 0)
	svc := NewVIPService(env.mutator)

	_, err := svc.Upgrade(context.Background(), userID, 2)
	assert.ErrorIs(t, err, ledger.ErrPreconditionFailed)
	assert.Empty(t, env.recordsOf(t, userID))
}

func TestUpgradeToCurrentOrLower(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 1000*ledger.MicroPerTRX, 1)
	svc := NewVIPService(env.mutator)

	_, err := svc.Upgrade(context.Background(), userID, 1)
	assert.ErrorIs(t, err, ledger.ErrPreconditionFailed)

	_, err = svc.Upgrade(context.Background(), userID, 0)
	assert.ErrorIs(t, err, ledger.ErrPreconditionFailed)
}

func TestUpgradeInsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 10*ledger.MicroPerTRX, 0)
	svc := NewVIPService(env.mutator)

	_, err := svc.Upgrade(context.Background(), userID, 1)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	var u models.User
	require.NoError(t, env.db.First(&u, userID).Error)
	assert.Equal(t, 0, u.VIPLevel) // level change rolled back with the debit
}

func TestUpgradeMissingTier(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 10000*ledger.MicroPerTRX, 2)
	svc := NewVIPService(env.mutator)

	_, err := svc.Upgrade(context.Background(), userID, 3)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestUpgradeLadder(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 1000*ledger.MicroPerTRX, 0)
	svc := NewVIPService(env.mutator)

	for target := 1; target <= 2; target++ {
		_, err := svc.Upgrade(context.Background(), userID, target)
		require.NoError(t, err)
	}
	var u models.User
	require.NoError(t, env.db.First(&u, userID).Error)
	assert.Equal(t, 2, u.VIPLevel)
	assert.Equal(t, int64(400*ledger.MicroPerTRX), env.ledgerOf(t, userID).AvailableMicro)
	assert.Len(t, env.recordsOf(t, userID), 2)
}

func TestUpgradeRecordStatus(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 150*ledger.MicroPerTRX, 0)
	svc := NewVIPService(env.mutator)

	_, err := svc.Upgrade(context.Background(), userID, 1)
	require.NoError(t, err)
	records := env.recordsOf(t, userID)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TxStatusCompleted, records[0].Status)
}
