package service

import (
	"context"
	"testing"
	"time"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"
	"trxmine/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 100 TRX at 1.5%/day over 30 days yields an expected total of 145 TRX.
func TestExpectedTotalMicro(t *testing.T) {
	got := ExpectedTotalMicro(100*ledger.MicroPerTRX, 150, 30)
	assert.Equal(t, int64(145*ledger.MicroPerTRX), got)
}

func TestInvestLocksPrincipal(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 200*ledger.MicroPerTRX, 0)
	svc := NewInvestmentService(env.mutator, repository.NewInvestmentRepository(env.db))

	contract, err := svc.Invest(context.Background(), userID, "basic", 100*ledger.MicroPerTRX, testPayPassword)
	require.NoError(t, err)
	assert.Equal(t, "basic", contract.PlanName)
	assert.Equal(t, int64(145*ledger.MicroPerTRX), contract.ExpectedTotalMicro)
	assert.Equal(t, 30, contract.ContractDays)

	l := env.ledgerOf(t, userID)
	assert.Equal(t, int64(100*ledger.MicroPerTRX), l.AvailableMicro)
	assert.Equal(t, int64(100*ledger.MicroPerTRX), l.LockedMicro)
	assert.Equal(t, int64(200*ledger.MicroPerTRX), l.TotalMicro) // locking moves, never destroys

	records := env.recordsOf(t, userID)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TxTypeInvestment, records[0].Type)
	assert.Equal(t, int64(-100*ledger.MicroPerTRX), records[0].AmountMicro)
}

func TestInvestBelowPlanMinimum(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 200*ledger.MicroPerTRX, 0)
	svc := NewInvestmentService(env.mutator, repository.NewInvestmentRepository(env.db))

	_, err := svc.Invest(context.Background(), userID, "basic", 5*ledger.MicroPerTRX, testPayPassword)
	assert.ErrorIs(t, err, ledger.ErrPreconditionFailed)
}

func TestInvestUnknownPlan(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 200*ledger.MicroPerTRX, 0)
	svc := NewInvestmentService(env.mutator, repository.NewInvestmentRepository(env.db))

	_, err := svc.Invest(context.Background(), userID, "platinum", 100*ledger.MicroPerTRX, testPayPassword)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestInvestWrongPayPassword(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 200*ledger.MicroPerTRX, 0)
	svc := NewInvestmentService(env.mutator, repository.NewInvestmentRepository(env.db))

	_, err := svc.Invest(context.Background(), userID, "basic", 100*ledger.MicroPerTRX, "9999")
	assert.ErrorIs(t, err, ledger.ErrInvalidCredential)
	assert.Empty(t, env.recordsOf(t, userID))
	assert.Zero(t, env.ledgerOf(t, userID).LockedMicro)
}

func matureContract(t *testing.T, env *testEnv, userID uint, amountMicro int64) models.InvestmentContract {
	t.Helper()
	start := time.Now().UTC().AddDate(0, 0, -31)
	c := models.InvestmentContract{
		UserID:             userID,
		PlanName:           "basic",
		AmountMicro:        amountMicro,
		DailyReturnBP:      150,
		ContractDays:       30,
		ExpectedTotalMicro: ExpectedTotalMicro(amountMicro, 150, 30),
		Status:             domain.InvestmentStatusActive,
		StartDate:          start,
		EndDate:            start.AddDate(0, 0, 30),
	}
	require.NoError(t, env.db.Create(&c).Error)
	return c
}

func TestSettlePaysPrincipalPlusInterest(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 0, 0)
	// principal already locked, as Invest leaves it
	require.NoError(t, env.db.Model(&models.Ledger{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"locked_micro": 100 * ledger.MicroPerTRX,
			"total_micro":  100 * ledger.MicroPerTRX,
		}).Error)
	c := matureContract(t, env, userID, 100*ledger.MicroPerTRX)
	svc := NewInvestmentService(env.mutator, repository.NewInvestmentRepository(env.db))

	require.NoError(t, svc.Settle(context.Background(), c.ID))

	l := env.ledgerOf(t, userID)
	assert.Equal(t, int64(145*ledger.MicroPerTRX), l.AvailableMicro)
	assert.Zero(t, l.LockedMicro)
	assert.Equal(t, int64(145*ledger.MicroPerTRX), l.TotalMicro)
	assert.Equal(t, int64(45*ledger.MicroPerTRX), l.EarnedMicro)

	var got models.InvestmentContract
	require.NoError(t, env.db.First(&got, c.ID).Error)
	assert.Equal(t, domain.InvestmentStatusCompleted, got.Status)
	assert.Equal(t, int64(45*ledger.MicroPerTRX), got.EarnedMicro)

	records := env.recordsOf(t, userID)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TxTypeInvestmentPayout, records[0].Type)
	assert.Equal(t, int64(145*ledger.MicroPerTRX), records[0].AmountMicro)
}

func TestSettleBeforeMaturity(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 200*ledger.MicroPerTRX, 0)
	repo := repository.NewInvestmentRepository(env.db)
	svc := NewInvestmentService(env.mutator, repo)

	contract, err := svc.Invest(context.Background(), userID, "basic", 100*ledger.MicroPerTRX, testPayPassword)
	require.NoError(t, err)

	err = svc.Settle(context.Background(), contract.ID)
	assert.ErrorIs(t, err, ledger.ErrPreconditionFailed)
}

func TestSettleTwice(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 0, 0)
	require.NoError(t, env.db.Model(&models.Ledger{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"locked_micro": 100 * ledger.MicroPerTRX,
			"total_micro":  100 * ledger.MicroPerTRX,
		}).Error)
	c := matureContract(t, env, userID, 100*ledger.MicroPerTRX)
	svc := NewInvestmentService(env.mutator, repository.NewInvestmentRepository(env.db))

	require.NoError(t, svc.Settle(context.Background(), c.ID))
	err := svc.Settle(context.Background(), c.ID)
	assert.ErrorIs(t, err, ledger.ErrPreconditionFailed)
}

func TestSettleMaturedWalksBacklog(t *testing.T) {
	env := newTestEnv(t)
	userID := env.createUser(t, 0, 0)
	require.NoError(t, env.db.Model(&models.Ledger{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"locked_micro": 200 * ledger.MicroPerTRX,
			"total_micro":  200 * ledger.MicroPerTRX,
		}).Error)
	matureContract(t, env, userID, 100*ledger.MicroPerTRX)
	matureContract(t, env, userID, 100*ledger.MicroPerTRX)
	svc := NewInvestmentService(env.mutator, repository.NewInvestmentRepository(env.db))

	settled, err := svc.SettleMatured(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, settled)
	assert.Zero(t, env.ledgerOf(t, userID).LockedMicro)
}
