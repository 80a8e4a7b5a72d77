package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTRX(t *testing.T) {
	micro, err := FromTRX(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000), micro)

	micro, err = FromTRX(decimal.RequireFromString("0.000001"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), micro)

	micro, err = FromTRX(decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000), micro)
}

func TestFromTRXRejectsNonPositive(t *testing.T) {
	_, err := FromTRX(decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = FromTRX(decimal.RequireFromString("-3"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFromTRXRejectsExcessPrecision(t *testing.T) {
	_, err := FromTRX(decimal.RequireFromString("0.0000001"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToTRXRoundTrip(t *testing.T) {
	d := ToTRX(145_000_000)
	assert.Equal(t, "145", d.String())

	micro, err := FromTRX(d)
	require.NoError(t, err)
	assert.Equal(t, int64(145_000_000), micro)
}

func TestFormatTRX(t *testing.T) {
	assert.Equal(t, "0.001000", FormatTRX(1000))
	assert.Equal(t, "100.000000", FormatTRX(100_000_000))
}
