package core

import "testing"

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        "2025-03-15",
		Description: "ok",
		Amount:      Money{Cents: 100},
		Type:        Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: "", Description: "a", Amount: Money{Cents: 1}, Type: Expense},
		{Date: "2025-03-15", Description: "", Amount: Money{Cents: 1}, Type: Expense},
		{Date: "2025-03-15", Description: "a", Amount: Money{Cents: 0}, Type: Expense},
		{Date: "2025-03-15", Description: "a", Amount: Money{Cents: 1}, Type: "transfer"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{Name: "Alimentação", Type: Expense, Color: "#FF8800"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "", Type: Income}).Validate(); err == nil {
		t.Fatal("empty name expected error")
	}
	if err := (Category{Name: "x", Type: Income, Color: "red"}).Validate(); err == nil {
		t.Fatal("bad color expected error")
	}
	if err := (Category{Name: "x", Type: Income}).Validate(); err != nil {
		t.Fatalf("color is optional: %v", err)
	}
}

func TestCardDerived(t *testing.T) {
	over := Card{
		DisplayName: "Nubank",
		TotalLimit:  Money{Cents: 100000},
		UsedAmount:  Money{Cents: 120000},
	}
	if got := over.Available().Cents; got != 0 {
		t.Errorf("over-limit Available = %d, want 0 (clamped)", got)
	}
	if got := over.UsagePercent(); got != 120 {
		t.Errorf("UsagePercent = %v, want 120", got)
	}
	if got := over.UsageBarWidth(); got != 100 {
		t.Errorf("UsageBarWidth = %d, want 100 (clamped)", got)
	}

	zero := Card{DisplayName: "x"}
	if got := zero.UsagePercent(); got != 0 {
		t.Errorf("zero-limit UsagePercent = %v, want 0", got)
	}

	absurd := Card{DisplayName: "x", TotalLimit: Money{Cents: 100}, UsedAmount: Money{Cents: 100000}}
	if got := absurd.UsagePercent(); got != 999 {
		t.Errorf("runaway UsagePercent = %v, want capped 999", got)
	}

	half := Card{DisplayName: "x", TotalLimit: Money{Cents: 100000}, UsedAmount: Money{Cents: 40000}}
	if got := half.Available().Cents; got != 60000 {
		t.Errorf("Available = %d, want 60000", got)
	}
	if got := half.UsageBarWidth(); got != 40 {
		t.Errorf("UsageBarWidth = %d, want 40", got)
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{
		Title:        "Reserva de emergência",
		Type:         GoalSave,
		TargetAmount: Money{Cents: 1000000},
		Deadline:     "2026-12-31",
		Status:       GoalActive,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Goal{
		{Title: "", Type: GoalSave, TargetAmount: Money{Cents: 1}, Deadline: "2026-01-01", Status: GoalActive},
		{Title: "x", Type: "invest", TargetAmount: Money{Cents: 1}, Deadline: "2026-01-01", Status: GoalActive},
		{Title: "x", Type: GoalSave, TargetAmount: Money{Cents: 0}, Deadline: "2026-01-01", Status: GoalActive},
		{Title: "x", Type: GoalSave, TargetAmount: Money{Cents: 1}, Deadline: "soon", Status: GoalActive},
		{Title: "x", Type: GoalSave, TargetAmount: Money{Cents: 1}, Deadline: "2026-01-01", Status: "archived"},
	}
	for i, g := range bads {
		if err := g.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCheckInValidate(t *testing.T) {
	good := CheckIn{GoalID: 1, Date: "2025-03-01", Mood: MoodPositive, AddedValue: Money{Cents: 0}}
	if err := good.Validate(); err != nil {
		t.Fatalf("zero added value is allowed: %v", err)
	}
	if err := (CheckIn{GoalID: 0, Date: "2025-03-01"}).Validate(); err == nil {
		t.Fatal("missing goal id expected error")
	}
	if err := (CheckIn{GoalID: 1, Date: "2025-03-01", AddedValue: Money{Cents: -5}}).Validate(); err == nil {
		t.Fatal("negative added value expected error")
	}
	if err := (CheckIn{GoalID: 1, Date: "2025-03-01", Mood: "ecstatic"}).Validate(); err == nil {
		t.Fatal("unknown mood expected error")
	}
}

func TestFutureLaunchValidate(t *testing.T) {
	good := FutureLaunch{
		Date:        "2025-06-01",
		Description: "IPVA",
		Amount:      Money{Cents: 50000},
		Type:        Expense,
		Status:      LaunchPending,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (FutureLaunch{Date: "2025-06-01", Description: "x", Amount: Money{Cents: 1}, Type: Expense, Status: "maybe"}).Validate(); err == nil {
		t.Fatal("bad status expected error")
	}
}
