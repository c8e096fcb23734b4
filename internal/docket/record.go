// Package docket keeps track of the legal deadlines attached to cases.
package docket

import (
	"time"

	"github.com/tartampluch/go-plazos/internal/deadline"
)

// Record is a scheduled deadline. Start and Due are civil dates (midnight UTC).
type Record struct {
	ID             string
	Case           string
	Title          string
	Notes          string
	Proceeding     deadline.Proceeding
	Mode           deadline.Mode
	Days           int
	Start          time.Time
	Due            time.Time
	Suspended      bool
	SuspensionDays int
	Notified       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Request rebuilds the calculator input the record was scheduled with.
func (r Record) Request() deadline.Request {
	return deadline.Request{
		Start:          r.Start,
		Days:           r.Days,
		Mode:           r.Mode,
		Suspended:      r.Suspended,
		SuspensionDays: r.SuspensionDays,
	}
}

// DaysRemaining counts calendar days from today to the due date.
func (r Record) DaysRemaining(today time.Time) int {
	return deadline.DaysRemaining(r.Due, today)
}

// Status buckets the record relative to today.
func (r Record) Status(today time.Time) deadline.Status {
	return deadline.Classify(r.Due, today)
}

// Draft is the input to Service.Schedule.
//
// When Proceeding names a catalog entry with a fixed term and Days is zero,
// the statutory days and mode are used.
type Draft struct {
	Case       string
	Title      string
	Notes      string
	Proceeding deadline.Proceeding
	Start      time.Time
	Days       int
	Mode       deadline.Mode
}
