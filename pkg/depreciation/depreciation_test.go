package depreciation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luganzimathiasjoseph/ARPM/pkg/metadata"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func monthsAgo(n int) *time.Time {
	t := now.Add(-time.Duration(n) * 30 * 24 * time.Hour)
	return &t
}

func TestCalculateStraightLine(t *testing.T) {
	tests := []struct {
		name            string
		cost            float64
		purchaseDate    *time.Time
		usefulLife      int
		wantAccumulated float64
		wantCurrent     float64
		wantMonths      int
	}{
		{
			name:            "fully depreciated clamps at cost",
			cost:            1200,
			purchaseDate:    monthsAgo(12),
			usefulLife:      12,
			wantAccumulated: 1200.00,
			wantCurrent:     0.00,
			wantMonths:      12,
		},
		{
			name:            "partial depreciation",
			cost:            1200,
			purchaseDate:    monthsAgo(6),
			usefulLife:      24,
			wantAccumulated: 300.00,
			wantCurrent:     900.00,
			wantMonths:      6,
		},
		{
			name:            "past useful life stays clamped",
			cost:            1200,
			purchaseDate:    monthsAgo(36),
			usefulLife:      12,
			wantAccumulated: 1200.00,
			wantCurrent:     0.00,
			wantMonths:      36,
		},
		{
			name:            "future purchase date clamps months to zero",
			cost:            500,
			purchaseDate:    monthsAgo(-3),
			usefulLife:      12,
			wantAccumulated: 0.00,
			wantCurrent:     500.00,
			wantMonths:      0,
		},
		{
			name:            "zero useful life treated as one month",
			cost:            600,
			purchaseDate:    monthsAgo(1),
			usefulLife:      0,
			wantAccumulated: 600.00,
			wantCurrent:     0.00,
			wantMonths:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.cost, tt.purchaseDate, metadata.MethodStraightLine, tt.usefulLife, now)
			assert.Equal(t, tt.wantAccumulated, got.AccumulatedDepreciation)
			assert.Equal(t, tt.wantCurrent, got.CurrentValue)
			assert.Equal(t, tt.wantMonths, got.MonthsInService)
		})
	}
}

func TestCalculateDecliningBalance(t *testing.T) {
	// rate = 2/10 = 0.2; each month removes 20% of the remaining book value.
	got := Calculate(1000, monthsAgo(1), metadata.MethodDecliningBalance, 10, now)
	assert.Equal(t, 200.00, got.AccumulatedDepreciation)
	assert.Equal(t, 800.00, got.CurrentValue)
	assert.Equal(t, 1, got.MonthsInService)

	got = Calculate(1000, monthsAgo(2), metadata.MethodDecliningBalance, 10, now)
	assert.Equal(t, 360.00, got.AccumulatedDepreciation)
	assert.Equal(t, 640.00, got.CurrentValue)
	assert.Equal(t, 2, got.MonthsInService)
}

func TestCalculateDecliningBalanceMatchesIterativeSimulation(t *testing.T) {
	// The per-step floor at zero makes the iterative result diverge from a
	// closed-form cost*(1-rate)^n once the rate exceeds 1.
	got := Calculate(1000, monthsAgo(5), metadata.MethodDecliningBalance, 1, now)
	assert.Equal(t, 1000.00, got.AccumulatedDepreciation)
	assert.Equal(t, 0.00, got.CurrentValue)
	assert.Equal(t, 5, got.MonthsInService)
}

func TestCalculateWithoutPurchaseDate(t *testing.T) {
	for _, method := range []metadata.DepreciationMethod{metadata.MethodStraightLine, metadata.MethodDecliningBalance} {
		got := Calculate(2500, nil, method, 60, now)
		assert.Equal(t, 0.00, got.AccumulatedDepreciation)
		assert.Equal(t, 2500.00, got.CurrentValue)
		assert.Equal(t, 0, got.MonthsInService)
	}
}

func TestCalculateZeroCost(t *testing.T) {
	got := Calculate(0, monthsAgo(12), metadata.MethodStraightLine, 12, now)
	assert.Equal(t, 0.00, got.AccumulatedDepreciation)
	assert.Equal(t, 0.00, got.CurrentValue)
	assert.Equal(t, 12, got.MonthsInService)
}

func TestCalculateRoundsToCents(t *testing.T) {
	// 999.99 / 7 * 3 = 428.5671... -> 428.57
	got := Calculate(999.99, monthsAgo(3), metadata.MethodStraightLine, 7, now)
	assert.Equal(t, 428.57, got.AccumulatedDepreciation)
	assert.Equal(t, 571.42, got.CurrentValue)
}
