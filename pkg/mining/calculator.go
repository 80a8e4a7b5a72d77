// Package mining holds the payout math for simulated machines. The whole
// economy hangs off one base rate: a 100 MH/s machine earns 0.001 TRX per
// day, linearly, with no compounding and no cap.
package mining

import (
	"time"
)

// BaseRateMicroPer100 is the daily earning in micro-TRX for 100 units of
// hashrate ((hashrate/100) * 0.001 TRX).
const BaseRateMicroPer100 = 1000

// electricityMicroPerWattHour prices maintenance at 0.05 TRX per kWh.
const electricityMicroPerWattHour = 50

// DailyEarningMicro returns the daily earning for a hashrate snapshot.
func DailyEarningMicro(hashrate int64) int64 {
	return hashrate * BaseRateMicroPer100 / 100
}

// HourlyEarningMicro floors the per-hour share of the daily rate.
func HourlyEarningMicro(hashrate int64) int64 {
	return DailyEarningMicro(hashrate) / 24
}

// MonthlyEarningMicro projects 30 days at the daily rate.
func MonthlyEarningMicro(hashrate int64) int64 {
	return DailyEarningMicro(hashrate) * 30
}

// SettlementMicro accrues a position's earning over elapsed wall-clock
// time: (daily/24) * hours, computed integrally with floor rounding so
// repeated settlements never overpay.
func SettlementMicro(dailyEarningMicro int64, elapsed time.Duration) int64 {
	if elapsed <= 0 || dailyEarningMicro <= 0 {
		return 0
	}
	secs := int64(elapsed / time.Second)
	return dailyEarningMicro * secs / 86400
}

// ROIDays returns the whole days needed for a machine to earn back its
// price, rounding up. Zero daily earning yields -1 (never).
func ROIDays(priceMicro, dailyEarningMicro int64) int64 {
	if dailyEarningMicro <= 0 {
		return -1
	}
	return (priceMicro + dailyEarningMicro - 1) / dailyEarningMicro
}

// MaintenanceMicro estimates electricity cost for a power draw over a
// number of hours.
func MaintenanceMicro(powerWatts, hours int64) int64 {
	if powerWatts <= 0 || hours <= 0 {
		return 0
	}
	return powerWatts * hours * electricityMicroPerWattHour / 1000
}
