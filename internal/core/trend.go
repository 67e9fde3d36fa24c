package core

import (
	"fmt"
	"math"
	"strings"
)

// Trend is a period-over-period comparison ready for display.
type Trend struct {
	Value    string
	Positive bool
}

// PercentageChange compares a current total against a previous-period
// total, both in cents. A zero previous period has no defined ratio,
// so the change collapses to the sign of the current value:
//
//	previous == 0, current == 0 -> "0%", positive
//	previous == 0, current > 0  -> "+100%", positive
//	previous == 0, current < 0  -> "-100%", negative
//
// Otherwise the change is (current-previous)/|previous|*100, formatted
// with one fraction digit and a Brazilian decimal comma. Dividing by
// the absolute value keeps the sign meaningful when the previous
// period was itself negative.
func PercentageChange(current, previous int64) Trend {
	if previous == 0 {
		switch {
		case current > 0:
			return Trend{Value: "+100%", Positive: true}
		case current < 0:
			return Trend{Value: "-100%", Positive: false}
		default:
			return Trend{Value: "0%", Positive: true}
		}
	}

	pct := float64(current-previous) / math.Abs(float64(previous)) * 100
	sign := "+"
	if pct < 0 {
		sign = "-"
	}
	formatted := strings.ReplaceAll(fmt.Sprintf("%.1f", math.Abs(pct)), ".", ",")
	return Trend{
		Value:    sign + formatted + "%",
		Positive: pct >= 0,
	}
}

// TrendTooltip renders the underlying comparison amounts for a hover
// hint, e.g. "R$ 100,00 no período anterior, R$ 150,00 no atual".
func TrendTooltip(current, previous int64) string {
	return fmt.Sprintf("%s no período anterior, %s no atual",
		FormatBRL(previous), FormatBRL(current))
}
