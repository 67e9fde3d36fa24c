package core

import (
	"testing"
)

func TestPaginatePartition(t *testing.T) {
	// Concatenating every page must reconstruct the input exactly.
	for _, n := range []int{0, 1, 9, 10, 11, 25, 100} {
		for _, pageSize := range []int{1, 3, 10, 40} {
			items := make([]int, n)
			for i := range items {
				items[i] = i
			}

			pages := TotalPages(n, pageSize)
			var rebuilt []int
			for p := 1; p <= pages; p++ {
				page := Paginate(items, p, pageSize)
				if len(page) == 0 {
					t.Fatalf("n=%d size=%d: page %d of %d empty", n, pageSize, p, pages)
				}
				if p < pages && len(page) != pageSize {
					t.Fatalf("n=%d size=%d: page %d has %d items, want %d", n, pageSize, p, len(page), pageSize)
				}
				rebuilt = append(rebuilt, page...)
			}

			if len(rebuilt) != n {
				t.Fatalf("n=%d size=%d: rebuilt %d items", n, pageSize, len(rebuilt))
			}
			for i, v := range rebuilt {
				if v != i {
					t.Fatalf("n=%d size=%d: rebuilt[%d] = %d", n, pageSize, i, v)
				}
			}

			// Last page length must land in (0, pageSize].
			if pages > 0 {
				last := Paginate(items, pages, pageSize)
				want := n - (pages-1)*pageSize
				if len(last) != want {
					t.Fatalf("n=%d size=%d: last page %d items, want %d", n, pageSize, len(last), want)
				}
			}
		}
	}
}

func TestPaginateBeyondEnd(t *testing.T) {
	items := []string{"a", "b", "c"}
	if got := Paginate(items, 5, 2); len(got) != 0 {
		t.Errorf("page beyond end = %v, want empty", got)
	}
	if got := Paginate([]string{}, 1, 10); len(got) != 0 {
		t.Errorf("empty input page = %v, want empty", got)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.count, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.count, tc.size, got, tc.want)
		}
	}
}

func TestFilterBySearchTerm(t *testing.T) {
	items := []Transaction{
		{Description: "Supermercado Extra"},
		{Description: "Uber para casa"},
		{Description: "Mercado da esquina"},
	}
	fields := func(tx Transaction) []string { return []string{tx.Description} }

	tests := []struct {
		name string
		term string
		want int
	}{
		{name: "case-insensitive substring", term: "MERCADO", want: 2},
		{name: "no matches", term: "farmácia", want: 0},
		{name: "empty term matches all", term: "", want: 3},
		{name: "whitespace term matches all", term: "   ", want: 3},
		{name: "exact word", term: "uber", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterBySearchTerm(items, tt.term, fields)
			if len(got) != tt.want {
				t.Errorf("filter %q matched %d, want %d", tt.term, len(got), tt.want)
			}
		})
	}
}

func TestFilterBySearchTermMultipleFields(t *testing.T) {
	type row struct {
		desc, category string
	}
	items := []row{
		{desc: "Almoço", category: "Alimentação"},
		{desc: "Gasolina", category: "Transporte"},
	}
	got := FilterBySearchTerm(items, "aliment", func(r row) []string {
		return []string{r.desc, r.category}
	})
	if len(got) != 1 || got[0].desc != "Almoço" {
		t.Errorf("category-field match failed: %v", got)
	}
}
