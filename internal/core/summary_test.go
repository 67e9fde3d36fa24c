package core

import "testing"

func TestSummarize(t *testing.T) {
	records := []Transaction{
		{Description: "a", Amount: Money{Cents: 1000}},
		{Description: "b", Amount: Money{Cents: 2000}},
		{Description: "c", Amount: Money{Cents: 3500}},
	}
	got := Summarize(records)
	if got.TotalCents != 6500 {
		t.Errorf("TotalCents = %d, want 6500", got.TotalCents)
	}
	if got.Count != 3 {
		t.Errorf("Count = %d, want 3", got.Count)
	}
	if got.AverageCents != 2167 { // 6500/3 rounded half-up
		t.Errorf("AverageCents = %d, want 2167", got.AverageCents)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize([]Transaction{})
	if got.TotalCents != 0 || got.Count != 0 || got.AverageCents != 0 {
		t.Errorf("empty summary = %+v, want zeros", got)
	}
	got = Summarize[Transaction](nil)
	if got.TotalCents != 0 || got.Count != 0 || got.AverageCents != 0 {
		t.Errorf("nil summary = %+v, want zeros", got)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	a := []FutureLaunch{
		{Amount: Money{Cents: 100}},
		{Amount: Money{Cents: 250}},
		{Amount: Money{Cents: 999}},
	}
	b := []FutureLaunch{a[2], a[0], a[1]}
	if Summarize(a) != Summarize(b) {
		t.Error("summary should not depend on record order")
	}
}
