package core

import (
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
}

func TestProgress(t *testing.T) {
	cases := []struct {
		current, target int64
		want            float64
	}{
		{0, 10000, 0},
		{5000, 10000, 50},
		{3333, 10000, 33.3},
		{10000, 10000, 100},
		{15000, 10000, 100}, // capped
		{5000, 0, 0},        // zero target guard
		{5000, -100, 0},
	}
	for _, tc := range cases {
		if got := Progress(tc.current, tc.target); got != tc.want {
			t.Errorf("Progress(%d, %d) = %v, want %v", tc.current, tc.target, got, tc.want)
		}
	}
}

func TestProgressBounds(t *testing.T) {
	for current := int64(0); current <= 200000; current += 777 {
		got := Progress(current, 100000)
		if got < 0 || got > 100 {
			t.Fatalf("Progress(%d, 100000) = %v out of [0,100]", current, got)
		}
	}
}

func TestDaysRemaining(t *testing.T) {
	now := date(2025, 3, 10)
	cases := []struct {
		deadline time.Time
		want     int
	}{
		{date(2025, 3, 10), 0},
		{date(2025, 3, 11), 1},
		{date(2025, 3, 20), 10},
		{date(2025, 3, 1), 0}, // past deadline floors at zero
	}
	for _, tc := range cases {
		if got := DaysRemaining(tc.deadline, now); got != tc.want {
			t.Errorf("DaysRemaining(%s) = %d, want %d", tc.deadline.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestMonthsRemaining(t *testing.T) {
	now := date(2025, 1, 1)
	cases := []struct {
		deadline time.Time
		want     int
	}{
		{date(2025, 1, 1), 0},
		{date(2025, 1, 31), 1},   // 30 days
		{date(2025, 2, 1), 2},    // 31 days, ceil
		{date(2025, 12, 27), 12}, // 360 days
		{date(2024, 6, 1), 0},    // past
	}
	for _, tc := range cases {
		if got := MonthsRemaining(tc.deadline, now); got != tc.want {
			t.Errorf("MonthsRemaining(%s) = %d, want %d", tc.deadline.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestMonthlySuggestion(t *testing.T) {
	now := date(2025, 1, 1)
	tests := []struct {
		name             string
		target, current  int64
		deadline         time.Time
		want             int64
	}{
		{
			name:     "goal met suggests zero",
			target:   100000,
			current:  100000,
			deadline: date(2025, 6, 1),
			want:     0,
		},
		{
			name:     "goal exceeded suggests zero",
			target:   100000,
			current:  150000,
			deadline: date(2025, 6, 1),
			want:     0,
		},
		{
			name:     "even split over months",
			target:   100000,
			current:  0,
			deadline: date(2025, 12, 27), // 12 approximate months
			want:     8334,               // ceil(100000/12)
		},
		{
			name:     "past deadline lump sum",
			target:   100000,
			current:  25000,
			deadline: date(2024, 12, 1),
			want:     75000,
		},
		{
			name:     "deadline today lump sum",
			target:   50000,
			current:  10000,
			deadline: now,
			want:     40000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlySuggestion(tt.target, tt.current, tt.deadline, now)
			if got != tt.want {
				t.Errorf("MonthlySuggestion = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGoalHealth(t *testing.T) {
	createdAt := date(2025, 1, 1)
	deadline := date(2025, 12, 31)

	tests := []struct {
		name    string
		current int64
		target  int64
		now     time.Time
		want    Health
	}{
		{
			name:    "reached target",
			current: 100000,
			target:  100000,
			now:     date(2025, 6, 1),
			want:    HealthCompleted,
		},
		{
			name:    "halfway in time with over half saved",
			current: 70000,
			target:  100000,
			now:     date(2025, 7, 2), // ~50% elapsed, expected ~50000, ratio 1.4
			want:    HealthAhead,
		},
		{
			name:    "on pace",
			current: 50000,
			target:  100000,
			now:     date(2025, 7, 2),
			want:    HealthOnTrack,
		},
		{
			name:    "slightly under pace within tolerance",
			current: 46000,
			target:  100000,
			now:     date(2025, 7, 2), // ratio ~0.92
			want:    HealthOnTrack,
		},
		{
			name:    "well behind",
			current: 10000,
			target:  100000,
			now:     date(2025, 11, 1),
			want:    HealthBehind,
		},
		{
			name:    "creation day with progress",
			current: 100,
			target:  100000,
			now:     createdAt,
			want:    HealthAhead,
		},
		{
			name:    "creation day without progress",
			current: 0,
			target:  100000,
			now:     createdAt,
			want:    HealthOnTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GoalHealth(tt.current, tt.target, createdAt, deadline, tt.now)
			if got != tt.want {
				t.Errorf("GoalHealth = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGoalHealthZeroDuration(t *testing.T) {
	day := date(2025, 5, 1)
	if got := GoalHealth(5000, 100000, day, day, day); got != HealthBehind {
		t.Errorf("deadline equal to creation should be behind, got %q", got)
	}
	if got := GoalHealth(5000, 100000, day, date(2025, 4, 1), day); got != HealthBehind {
		t.Errorf("deadline before creation should be behind, got %q", got)
	}
}
