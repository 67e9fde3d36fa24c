package core

import (
	"math"
	"time"
)

// Health classifies a goal's pace: actual progress against the
// progress expected from elapsed time.
type Health string

const (
	HealthCompleted Health = "completed"
	HealthAhead     Health = "ahead"
	HealthOnTrack   Health = "on_track"
	HealthBehind    Health = "behind"
)

// Progress is the completion percentage of a goal with one decimal of
// precision, capped at 100. A non-positive target reports 0 rather
// than a division error.
func Progress(currentCents, targetCents int64) float64 {
	if targetCents <= 0 {
		return 0
	}
	pct := math.Round(float64(currentCents)/float64(targetCents)*1000) / 10
	if pct > 100 {
		return 100
	}
	return pct
}

// DaysRemaining counts whole days from now until the deadline,
// rounding partial days up. A past deadline reports 0, never a
// negative count.
func DaysRemaining(deadline, now time.Time) int {
	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// MonthsRemaining approximates the months left as ceil(days/30). The
// flat 30-day month is good enough for contribution suggestions.
func MonthsRemaining(deadline, now time.Time) int {
	days := DaysRemaining(deadline, now)
	return int(math.Ceil(float64(days) / 30))
}

// MonthlySuggestion is the contribution per month, in cents, that
// closes the gap to the target by the deadline, rounded up. A met or
// exceeded goal suggests 0; a deadline today or in the past collapses
// to the full remaining amount as a lump sum.
func MonthlySuggestion(targetCents, currentCents int64, deadline, now time.Time) int64 {
	remaining := targetCents - currentCents
	if remaining <= 0 {
		return 0
	}
	months := MonthsRemaining(deadline, now)
	if months == 0 {
		return remaining
	}
	return int64(math.Ceil(float64(remaining) / float64(months)))
}

// GoalHealth classifies pacing by comparing actual progress to the
// progress a straight line from creation to deadline would expect.
// Ratio thresholds: >= 1.1 ahead, >= 0.9 on track, else behind.
//
// Zero-duration and zero-elapsed cases need an explicit policy:
// a deadline not after creation is "behind" (no time was ever
// available), and a goal checked on its creation day is "ahead" when
// it already has progress (the expected amount is still zero) or
// "on_track" otherwise.
func GoalHealth(currentCents, targetCents int64, createdAt, deadline, now time.Time) Health {
	if targetCents > 0 && currentCents >= targetCents {
		return HealthCompleted
	}

	total := deadline.Sub(createdAt)
	if total <= 0 {
		return HealthBehind
	}

	elapsed := now.Sub(createdAt)
	if elapsed <= 0 {
		if currentCents > 0 {
			return HealthAhead
		}
		return HealthOnTrack
	}

	expected := elapsed.Seconds() / total.Seconds() * float64(targetCents)
	ratio := float64(currentCents) / expected
	switch {
	case ratio >= 1.1:
		return HealthAhead
	case ratio >= 0.9:
		return HealthOnTrack
	default:
		return HealthBehind
	}
}
