package mining

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyEarningMicro(t *testing.T) {
	// 100 hashrate earns 0.001 TRX per day
	assert.Equal(t, int64(1000), DailyEarningMicro(100))
	assert.Equal(t, int64(5000), DailyEarningMicro(500))
	assert.Equal(t, int64(20000), DailyEarningMicro(2000))
	assert.Zero(t, DailyEarningMicro(0))
}

func TestSettlementMicro(t *testing.T) {
	daily := DailyEarningMicro(100)

	assert.Equal(t, int64(1000), SettlementMicro(daily, 24*time.Hour))
	assert.Equal(t, int64(500), SettlementMicro(daily, 12*time.Hour))
	assert.Equal(t, int64(2000), SettlementMicro(daily, 48*time.Hour))

	// floor rounding, never overpay
	assert.Equal(t, int64(0), SettlementMicro(daily, 30*time.Second))
	assert.Equal(t, int64(41), SettlementMicro(daily, time.Hour))

	assert.Zero(t, SettlementMicro(daily, 0))
	assert.Zero(t, SettlementMicro(daily, -time.Hour))
	assert.Zero(t, SettlementMicro(0, 24*time.Hour))
}

func TestROIDays(t *testing.T) {
	// 50 TRX machine earning 0.001 TRX/day
	assert.Equal(t, int64(50000), ROIDays(50_000_000, 1000))
	// rounds up
	assert.Equal(t, int64(2), ROIDays(1500, 1000))
	assert.Equal(t, int64(-1), ROIDays(50_000_000, 0))
}

func TestMaintenanceMicro(t *testing.T) {
	// 0.05 TRX per kWh: 1000W for 24h = 24 kWh = 1.2 TRX
	assert.Equal(t, int64(1_200_000), MaintenanceMicro(1000, 24))
	assert.Zero(t, MaintenanceMicro(0, 24))
	assert.Zero(t, MaintenanceMicro(100, 0))
}
