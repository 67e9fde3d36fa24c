// Package core provides the domain types and pure calculation
// functions of the finance tracker: money and calendar-date handling,
// trend and goal-progress math, summaries, and pagination.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in integer cents. All arithmetic happens
// on cents; floats appear only at formatting boundaries.
type Money struct {
	Cents int64
}

// Reais returns the value in reais as a float64, for display only.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// BRL renders the amount as Brazilian currency, e.g. "R$ 1.234,56".
func (m Money) BRL() string {
	return FormatBRL(m.Cents)
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. It accepts both dot (12.34) and
// comma (12,34) separators. Returns an error for invalid formats,
// signed values, or zero amounts.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only unsigned values allowed; income vs expense carries the sign.
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatBRL formats cents as Brazilian-Portuguese currency with a dot
// thousands separator and exactly two comma-separated fraction digits:
// 123456 -> "R$ 1.234,56", -500 -> "-R$ 5,00".
func FormatBRL(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	reais := cents / 100
	rem := cents % 100

	intStr := strconv.FormatInt(reais, 10)
	var b strings.Builder
	lead := len(intStr) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intStr[:lead])
	for i := lead; i < len(intStr); i += 3 {
		b.WriteByte('.')
		b.WriteString(intStr[i : i+3])
	}

	s := "R$ " + b.String() + "," + twoDigits(rem)
	if neg {
		return "-" + s
	}
	return s
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
