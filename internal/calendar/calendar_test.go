package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonth_LeadingBlanksAndTarget(t *testing.T) {
	// May 2024 starts on a Wednesday and has 31 days.
	now := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	m := BuildMonth(2024, time.May, 27, now)

	assert.Equal(t, 3, m.LeadingBlanks)
	assert.Equal(t, 31, m.DaysInMonth)
	require.Len(t, m.Cells, 34)
	for i := 0; i < 3; i++ {
		assert.True(t, m.Cells[i].Blank)
	}
	assert.Equal(t, Cell{Day: 1}, m.Cells[3])
	assert.Equal(t, Cell{Day: 27, IsTarget: true}, m.Cells[3+26])
	assert.False(t, m.IsCurrentMonth)
	assert.Equal(t, "Mayo", m.Name)
}

func TestBuildMonth_ThirtyDaysStartingWednesday(t *testing.T) {
	// April 2020 has 30 days and starts on a Wednesday.
	m := BuildMonth(2020, time.April, 15, time.Date(2020, time.April, 3, 0, 0, 0, 0, time.UTC))

	require.Len(t, m.Cells, 33)
	targets := 0
	for i, c := range m.Cells {
		if i < 3 {
			assert.True(t, c.Blank)
			continue
		}
		assert.Equal(t, i-2, c.Day)
		if c.IsTarget {
			targets++
			assert.Equal(t, 15, c.Day)
		}
	}
	assert.Equal(t, 1, targets)
	assert.True(t, m.IsCurrentMonth)
}

func TestBuildMonth_SundayStartHasNoBlanks(t *testing.T) {
	// September 2024 starts on a Sunday.
	m := BuildMonth(2024, time.September, 31, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 0, m.LeadingBlanks)
	require.Len(t, m.Cells, 30)
	for _, c := range m.Cells {
		assert.False(t, c.IsTarget)
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 31, DaysIn(2023, time.December))
}

func TestBuildYear(t *testing.T) {
	now := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	months := BuildYear(2024, 27, now)

	require.Len(t, months, 12)
	current := 0
	for i, m := range months {
		assert.Equal(t, time.Month(i+1), m.Month)
		if m.IsCurrentMonth {
			current++
			assert.Equal(t, time.March, m.Month)
		}
	}
	assert.Equal(t, 1, current)
}
