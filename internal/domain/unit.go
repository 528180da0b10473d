package domain

import (
	"time"

	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// Unit is a bookable physical space (a rehearsal or recording room).
type Unit struct {
	ID              string
	Name            string
	HourlyRate      int64 // whole currency units per hour
	MaxBookingHours int
	HorizonStart    time.Time // inclusive start of the bookable window
	HorizonEnd      time.Time // exclusive end of the bookable window
	Active          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Horizon returns the unit's availability window.
func (u *Unit) Horizon() timeslot.Window {
	return timeslot.Window{Start: u.HorizonStart, End: u.HorizonEnd}
}

// WithinHorizon reports whether the whole interval fits the bookable window.
func (u *Unit) WithinHorizon(r timeslot.Range) bool {
	return !r.Start.Before(u.HorizonStart) && !r.End().After(u.HorizonEnd)
}

// AllowsDuration reports whether the duration respects the per-booking cap.
func (u *Unit) AllowsDuration(hours int) bool {
	return hours >= MinBookingHours && hours <= u.MaxBookingHours
}
