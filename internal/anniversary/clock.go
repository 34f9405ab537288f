// Package anniversary computes the countdown to the monthly anniversary and
// watches for the day it arrives.
package anniversary

import (
	"time"

	"github.com/jade/nuestro27/internal/model"
)

// Status is the result of evaluating the clock at one instant.
type Status struct {
	IsAnniversary bool                `json:"isAnniversary"`
	TimeLeft      model.CountdownTime `json:"timeLeft"`
	Target        time.Time           `json:"target"` // zero on the anniversary itself
}

// Compute evaluates the anniversary clock at now for the given day of month.
// Calendar arithmetic happens in now's location. A day that does not exist in
// the target month overflows into the following month the way time.Date does.
func Compute(now time.Time, day int) Status {
	if now.Day() == day {
		return Status{IsAnniversary: true}
	}

	year, month, _ := now.Date()
	loc := now.Location()
	target := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if now.After(target) {
		target = time.Date(year, month+1, day, 0, 0, 0, 0, loc)
	}

	return Status{
		TimeLeft: Split(target.Sub(now)),
		Target:   target,
	}
}

// Split decomposes d into whole days, hours, minutes and seconds.
// Sub-second remainders are truncated.
func Split(d time.Duration) model.CountdownTime {
	if d <= 0 {
		return model.CountdownTime{}
	}
	secs := int64(d / time.Second)
	return model.CountdownTime{
		Days:    secs / 86400,
		Hours:   secs / 3600 % 24,
		Minutes: secs / 60 % 60,
		Seconds: secs % 60,
	}
}
