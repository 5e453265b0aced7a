package usecase

import (
	"testing"
	"time"

	"AstroView/internal/domain/models"
)

func TestBuildMonthGridMarch2024(t *testing.T) {
	// March 1st 2024 is a Friday: 5 leading blanks, 31 days, padded to 42.
	days := []models.CalendarDay{
		{Date: "2024-03-05", UDN: 5, Resonance: true, Multiplier: 1.5},
		{Date: "2024-03-17", UDN: 8, Resonance: false, Multiplier: 1.0},
	}

	grid := BuildMonthGrid(2024, time.March, days)
	if grid.Label != "March 2024" {
		t.Fatalf("label = %q", grid.Label)
	}
	if len(grid.Cells)%7 != 0 {
		t.Fatalf("cell count %d not a multiple of 7", len(grid.Cells))
	}

	leading := 0
	for _, c := range grid.Cells {
		if !c.Blank {
			break
		}
		leading++
	}
	if leading != 5 {
		t.Fatalf("leading blanks = %d, want 5", leading)
	}

	dayCells := 0
	for _, c := range grid.Cells {
		if !c.Blank {
			dayCells++
		}
	}
	if dayCells != 31 {
		t.Fatalf("day cells = %d, want 31", dayCells)
	}
	if len(grid.Cells) != 42 {
		t.Fatalf("total cells = %d, want 42", len(grid.Cells))
	}

	// Entries attach by exact date key.
	fifth := grid.Cells[leading+4]
	if fifth.Day != 5 || fifth.Entry == nil || !fifth.Entry.Resonance || fifth.Entry.Multiplier != 1.5 {
		t.Fatalf("resonance entry not attached: %+v", fifth)
	}
	sixth := grid.Cells[leading+5]
	if sixth.Entry != nil {
		t.Fatalf("day 6 has an entry it should not: %+v", sixth.Entry)
	}
}

func TestBuildMonthGridExactCellCounts(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		cells int
	}{
		{2024, time.March, 42},    // Fri start, 31 days
		{2026, time.February, 28}, // Sun start, 28 days, no padding at all
		{2024, time.September, 35},
	}
	for _, c := range cases {
		grid := BuildMonthGrid(c.year, c.month, nil)
		if len(grid.Cells) != c.cells {
			t.Fatalf("%d-%d: cells = %d, want %d", c.year, c.month, len(grid.Cells), c.cells)
		}
	}
}

func TestGroupByMonthOrdering(t *testing.T) {
	days := []models.CalendarDay{
		{Date: "2026-02-10", UDN: 3},
		{Date: "2025-12-01", UDN: 1},
		{Date: "2026-01-15", UDN: 7},
		{Date: "garbage", UDN: 9},
	}

	grids := GroupByMonth(days)
	if len(grids) != 3 {
		t.Fatalf("got %d grids, want 3", len(grids))
	}
	labels := []string{"December 2025", "January 2026", "February 2026"}
	for i, want := range labels {
		if grids[i].Label != want {
			t.Fatalf("grid %d label = %q, want %q", i, grids[i].Label, want)
		}
	}
}
