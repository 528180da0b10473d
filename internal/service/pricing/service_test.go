package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

func TestQuote(t *testing.T) {
	calc := NewCalculator()
	unit := &domain.Unit{HourlyRate: 15000}

	price, err := calc.Quote(unit, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), price)

	price, err = calc.Quote(unit, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), price)

	_, err = calc.Quote(unit, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestIncrementalQuote(t *testing.T) {
	calc := NewCalculator()
	unit := &domain.Unit{HourlyRate: 15000}

	// Перенос без дополнительных часов бесплатен
	price, err := calc.IncrementalQuote(unit, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), price)

	price, err = calc.IncrementalQuote(unit, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), price)

	_, err = calc.IncrementalQuote(unit, -1)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}
