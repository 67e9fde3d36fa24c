package core

// Summary aggregates a collection of money-valued records. The
// collection must already be filtered to the date range of interest;
// Summarize does not filter.
type Summary struct {
	TotalCents   int64
	Count        int
	AverageCents int64
}

// Amounter is any record carrying a monetary amount.
type Amounter interface {
	AmountCents() int64
}

func (t Transaction) AmountCents() int64  { return t.Amount.Cents }
func (l FutureLaunch) AmountCents() int64 { return l.Amount.Cents }
func (c CheckIn) AmountCents() int64      { return c.AddedValue.Cents }

// Summarize computes total, count and average over the records. An
// empty collection yields all zeros, never a division error. Order of
// records does not matter.
func Summarize[T Amounter](records []T) Summary {
	s := Summary{Count: len(records)}
	for _, r := range records {
		s.TotalCents += r.AmountCents()
	}
	if s.Count > 0 {
		// Half-up rounding keeps the average a displayable cent value.
		half := int64(s.Count) / 2
		if s.TotalCents < 0 {
			half = -half
		}
		s.AverageCents = (s.TotalCents + half) / int64(s.Count)
	}
	return s
}

// CategorySum is a per-category aggregate for breakdown charts.
type CategorySum struct {
	CategoryID int64
	Name       string
	Color      string
	TotalCents int64
}
