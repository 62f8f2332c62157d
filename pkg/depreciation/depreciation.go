// Package depreciation computes accumulated depreciation and book value for
// an asset. The arithmetic is intentionally approximate: a month is a fixed
// 30 days and the declining-balance method is simulated month by month with
// the book value floored at zero on every step. Callers depend on these
// exact numbers; do not replace the loop with a closed-form formula or the
// 30-day month with calendar months.
package depreciation

import (
	"math"
	"time"

	"github.com/luganzimathiasjoseph/ARPM/pkg/metadata"
)

type Result struct {
	AccumulatedDepreciation float64 `json:"accumulatedDepreciation"`
	CurrentValue            float64 `json:"currentValue"`
	MonthsInService         int     `json:"monthsInService"`
}

const monthSeconds = 30 * 24 * 60 * 60

// Calculate never fails: a nil purchase date yields a zero-months result and
// a non-positive useful life is treated as one month.
func Calculate(cost float64, purchaseDate *time.Time, method metadata.DepreciationMethod, usefulLifeMonths int, now time.Time) Result {
	if purchaseDate == nil {
		return Result{
			AccumulatedDepreciation: 0,
			CurrentValue:            round2(cost),
			MonthsInService:         0,
		}
	}

	life := usefulLifeMonths
	if life <= 0 {
		life = 1
	}

	months := int(math.Floor(now.Sub(*purchaseDate).Seconds() / monthSeconds))
	if months < 0 {
		months = 0
	}

	var accumulated, currentValue float64
	if method == metadata.MethodStraightLine {
		accumulated = math.Min(cost, cost/float64(life)*float64(months))
		currentValue = math.Max(0, cost-accumulated)
	} else {
		rate := 2 / float64(life)
		book := cost
		for i := 0; i < months; i++ {
			book = math.Max(0, book-book*rate)
		}
		accumulated = math.Max(0, cost-book)
		currentValue = book
	}

	return Result{
		AccumulatedDepreciation: round2(accumulated),
		CurrentValue:            round2(currentValue),
		MonthsInService:         months,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
