// Package calendar lays out month grids with the anniversary day highlighted.
package calendar

import "time"

// MonthNames are the display names used by the calendar view.
var MonthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// WeekdayHeader labels the grid columns, Sunday first.
var WeekdayHeader = [7]string{"D", "L", "M", "X", "J", "V", "S"}

// Cell is one slot of the grid. Blank cells pad the first week.
type Cell struct {
	Blank    bool `json:"blank"`
	Day      int  `json:"day,omitempty"`
	IsTarget bool `json:"isTarget,omitempty"`
}

// Month is a laid-out month.
type Month struct {
	Year           int        `json:"year"`
	Month          time.Month `json:"month"`
	Name           string     `json:"name"`
	DaysInMonth    int        `json:"daysInMonth"`
	LeadingBlanks  int        `json:"leadingBlanks"`
	IsCurrentMonth bool       `json:"isCurrentMonth"` // set per month; the view outlines the whole grid
	Header         [7]string  `json:"header"`
	Cells          []Cell     `json:"cells"`
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonth lays out month of year in a 7-column grid starting on Sunday.
// The cell equal to anniversaryDay is tagged as the target. The month is
// current when it matches now's month.
func BuildMonth(year int, month time.Month, anniversaryDay int, now time.Time) Month {
	days := DaysIn(year, month)
	first := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())

	cells := make([]Cell, 0, first+days)
	for i := 0; i < first; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{Day: d, IsTarget: d == anniversaryDay})
	}

	return Month{
		Year:           year,
		Month:          month,
		Name:           MonthNames[month-1],
		DaysInMonth:    days,
		LeadingBlanks:  first,
		IsCurrentMonth: now.Month() == month,
		Header:         WeekdayHeader,
		Cells:          cells,
	}
}

// BuildYear lays out all twelve months of year.
func BuildYear(year, anniversaryDay int, now time.Time) []Month {
	months := make([]Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, BuildMonth(year, m, anniversaryDay, now))
	}
	return months
}
