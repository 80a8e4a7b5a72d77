package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MicroPerTRX is the internal fixed-point scale: 1 TRX = 1_000_000 micro.
const MicroPerTRX = 1_000_000

// FromTRX converts a TRX amount from the API boundary into micro-TRX.
// Amounts must be positive and carry at most 6 decimal places.
func FromTRX(d decimal.Decimal) (int64, error) {
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	shifted := d.Shift(6)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: amount precision exceeds 6 decimal places", ErrValidation)
	}
	if !shifted.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: amount out of range", ErrValidation)
	}
	return shifted.IntPart(), nil
}

// ToTRX converts micro-TRX back to a decimal TRX amount for responses.
func ToTRX(micro int64) decimal.Decimal {
	return decimal.New(micro, -6)
}

// FormatTRX renders micro-TRX with full 6-digit precision.
func FormatTRX(micro int64) string {
	return ToTRX(micro).StringFixed(6)
}
