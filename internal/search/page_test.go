package search

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 2, 0},
		{1, 2, 1},
		{2, 2, 1},
		{5, 2, 3},
		{6, 2, 3},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestWindow_FiveMatches(t *testing.T) {
	start, end := Window(5, 3, PageSize)
	if end-start != 1 {
		t.Errorf("page 3 of 5 matches should hold 1 item, got %d", end-start)
	}
	start, end = Window(5, 4, PageSize)
	if start != end {
		t.Errorf("page 4 of 5 matches should be empty, got [%d,%d)", start, end)
	}
}

// Feature: storefront-catalog, Property 4: Pages reconstruct the match set
func TestProperty_PagesReconstructMatches(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("concatenated pages equal the full ordered set", prop.ForAll(
		func(total int, size int) bool {
			pages := PageCount(total, size)
			next := 0
			for p := 1; p <= pages; p++ {
				start, end := Window(total, p, size)
				if start != next || end <= start {
					return false
				}
				next = end
			}
			if next != total {
				return false
			}
			start, end := Window(total, pages+1, size)
			return start == end
		},
		gen.IntRange(0, 200),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
