package usecase

import (
	"sort"
	"time"

	"AstroView/internal/domain/models"
	"AstroView/pkg/util"
)

// GridCell is one cell of a month grid. Blank cells pad the first and last
// week so every row is a full Sunday-to-Saturday run.
type GridCell struct {
	Blank bool                `json:"blank"`
	Day   int                 `json:"day,omitempty"`
	Date  string              `json:"date,omitempty"`
	Entry *models.CalendarDay `json:"entry,omitempty"`
}

// MonthGrid is one calendar month laid out week by week. Cells is always a
// multiple of seven.
type MonthGrid struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Label string     `json:"label"`
	Cells []GridCell `json:"cells"`
}

// BuildMonthGrid lays out one month: leading blanks up to the weekday of
// day 1 (Sunday-first), a cell per day with its calendar entry matched by
// exact date key, then trailing blanks to complete the last week. Days
// outside the month are ignored.
func BuildMonthGrid(year int, month time.Month, days []models.CalendarDay) MonthGrid {
	byDate := make(map[string]*models.CalendarDay, len(days))
	for i := range days {
		byDate[days[i].Date] = &days[i]
	}

	grid := MonthGrid{
		Year:  year,
		Month: int(month),
		Label: util.MonthLabel(util.DayKey(year, month, 1)[:7]),
	}

	for i := 0; i < util.FirstWeekday(year, month); i++ {
		grid.Cells = append(grid.Cells, GridCell{Blank: true})
	}

	for day := 1; day <= util.DaysInMonth(year, month); day++ {
		key := util.DayKey(year, month, day)
		grid.Cells = append(grid.Cells, GridCell{
			Day:   day,
			Date:  key,
			Entry: byDate[key],
		})
	}

	for len(grid.Cells)%7 != 0 {
		grid.Cells = append(grid.Cells, GridCell{Blank: true})
	}
	return grid
}

// GroupByMonth splits calendar days into month grids, ascending by month.
// Days with a malformed date key are dropped rather than corrupting a
// grid.
func GroupByMonth(days []models.CalendarDay) []MonthGrid {
	byMonth := make(map[string][]models.CalendarDay)
	for _, d := range days {
		if _, err := time.Parse("2006-01-02", d.Date); err != nil {
			continue
		}
		key := util.MonthKey(d.Date)
		byMonth[key] = append(byMonth[key], d)
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	grids := make([]MonthGrid, 0, len(keys))
	for _, key := range keys {
		t, err := time.Parse("2006-01", key)
		if err != nil {
			continue
		}
		grids = append(grids, BuildMonthGrid(t.Year(), t.Month(), byMonth[key]))
	}
	return grids
}
