package core

import (
	"errors"
	"strings"
)

const (
	Income  RecordType = "income"
	Expense RecordType = "expense"
)

const (
	GoalSave   GoalType = "save"
	GoalReduce GoalType = "reduce"
	GoalPayoff GoalType = "payoff"
	GoalCustom GoalType = "custom"
)

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

const (
	LaunchPending   LaunchStatus = "pending"
	LaunchCompleted LaunchStatus = "completed"
)

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

type (
	RecordType   string
	GoalType     string
	GoalStatus   string
	LaunchStatus string
	Mood         string

	// Transaction is a realized income or expense entry. Date is a bare
	// calendar date in YYYY-MM-DD form, never a timestamp.
	Transaction struct {
		ID          int64
		Date        string
		Description string
		Amount      Money
		CategoryID  int64 // 0 = uncategorized
		Type        RecordType
	}

	Category struct {
		ID          int64
		Name        string
		Description string
		Type        RecordType
		Color       string // hex, e.g. "#6366F1"
	}

	Card struct {
		ID          int64
		DisplayName string
		Nickname    string
		Issuer      string
		Brand       string
		LastFour    string
		TotalLimit  Money
		UsedAmount  Money
		IsPrimary   bool
	}

	Goal struct {
		ID                int64
		Title             string
		Type              GoalType
		Description       string
		TargetAmount      Money
		CurrentAmount     Money
		Deadline          string // YYYY-MM-DD
		Status            GoalStatus
		CategoryID        int64
		CardID            int64
		ReflectionWhy     string
		ReflectionChange  string
		ReflectionFeeling string
		CreatedAt         string // YYYY-MM-DD
	}

	// CheckIn is an append-only progress note on a goal. Applying its
	// AddedValue to the goal's running total is a separate operation.
	CheckIn struct {
		ID         int64
		GoalID     int64
		Date       string
		Mood       Mood
		Obstacles  string
		AddedValue Money
		Note       string
	}

	// FutureLaunch is a scheduled income or expense that has not been
	// realized yet.
	FutureLaunch struct {
		ID          int64
		Date        string
		Description string
		Amount      Money
		CategoryID  int64
		Type        RecordType
		Status      LaunchStatus
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidType      = errors.New("invalid type")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidDeadline  = errors.New("invalid deadline")
	ErrInvalidTarget    = errors.New("invalid target amount")
)

func (t RecordType) Valid() bool {
	return t == Income || t == Expense
}

func (t GoalType) Valid() bool {
	switch t {
	case GoalSave, GoalReduce, GoalPayoff, GoalCustom:
		return true
	}
	return false
}

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalPaused:
		return true
	}
	return false
}

func (s LaunchStatus) Valid() bool {
	return s == LaunchPending || s == LaunchCompleted
}

func (m Mood) Valid() bool {
	switch m {
	case "", MoodPositive, MoodNeutral, MoodNegative:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if _, err := ParseLocalDate(t.Date); err != nil {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	if c.Color != "" && !validHexColor(c.Color) {
		return errors.New("invalid color: expected #RRGGBB")
	}
	return nil
}

func (c Card) Validate() error {
	if len(strings.TrimSpace(c.DisplayName)) == 0 {
		return ErrEmptyName
	}
	if c.TotalLimit.Cents < 0 {
		return ErrInvalidAmount
	}
	if c.UsedAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if c.LastFour != "" && len(c.LastFour) != 4 {
		return errors.New("last four must be exactly 4 digits")
	}
	return nil
}

// Available is the remaining card limit, never negative even when the
// used amount exceeds the limit.
func (c Card) Available() Money {
	avail := c.TotalLimit.Cents - c.UsedAmount.Cents
	if avail < 0 {
		avail = 0
	}
	return Money{Cents: avail}
}

// UsagePercent is used/limit as a percentage, capped at 999 so an
// over-limit card still renders a bounded figure. A zero limit reports
// 0, never NaN.
func (c Card) UsagePercent() float64 {
	if c.TotalLimit.Cents <= 0 {
		return 0
	}
	pct := float64(c.UsedAmount.Cents) / float64(c.TotalLimit.Cents) * 100
	if pct > 999 {
		return 999
	}
	return pct
}

// UsageBarWidth clamps the usage percentage to [0, 100] for progress
// bar rendering.
func (c Card) UsageBarWidth() int {
	pct := c.UsagePercent()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if !g.Type.Valid() {
		return ErrInvalidType
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseLocalDate(g.Deadline); err != nil {
		return ErrInvalidDeadline
	}
	if !g.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (c CheckIn) Validate() error {
	if c.GoalID <= 0 {
		return errors.New("missing goal id")
	}
	if _, err := ParseLocalDate(c.Date); err != nil {
		return ErrInvalidDate
	}
	if c.AddedValue.Cents < 0 {
		return ErrInvalidAmount
	}
	if !c.Mood.Valid() {
		return errors.New("invalid mood")
	}
	return nil
}

func (l FutureLaunch) Validate() error {
	if _, err := ParseLocalDate(l.Date); err != nil {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(l.Description)) == 0 {
		return ErrEmptyDescription
	}
	if l.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !l.Type.Valid() {
		return ErrInvalidType
	}
	if l.Status != "" && !l.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func validHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
