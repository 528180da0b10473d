package domain

import (
	"time"

	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// BookingStatus represents the persisted status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
	StatusOverdue   BookingStatus = "overdue"
)

// DerivedStatus is the status reported to readers. For a confirmed booking it
// additionally reflects the door-access window around the reserved interval.
type DerivedStatus string

const (
	DerivedPending    DerivedStatus = "pending"
	DerivedConfirmed  DerivedStatus = "confirmed"
	DerivedBuffered   DerivedStatus = "buffered"
	DerivedInProgress DerivedStatus = "in_progress"
	DerivedComplete   DerivedStatus = "complete"
	DerivedCanceled   DerivedStatus = "canceled"
	DerivedOverdue    DerivedStatus = "overdue"
)

// Booking represents a reservation of a unit for a contiguous run of hours.
// The holder is always the individual who created the booking; the customer
// of record may be that individual or a group.
type Booking struct {
	ID            int64
	UnitID        string
	HolderUserID  int64
	Customer      IdentityRef
	StartTime     time.Time // UTC, hour-aligned
	DurationHours int
	Status        BookingStatus

	HolderName string // denormalized for the occupied-slot projection

	ConfirmedAt *time.Time
	CanceledAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Range returns the booked interval [StartTime, StartTime+DurationHours).
func (b *Booking) Range() timeslot.Range {
	return timeslot.Range{Start: b.StartTime, Hours: b.DurationHours}
}

// EndTime returns the exclusive end of the booked interval.
func (b *Booking) EndTime() time.Time {
	return b.Range().End()
}

// IsLive reports whether the booking occupies its slot at the given time.
// A pending booking whose start has passed without confirmation no longer
// blocks the slot even if the sweeper has not persisted overdue yet.
func (b *Booking) IsLive(now time.Time) bool {
	switch b.Status {
	case StatusConfirmed:
		return true
	case StatusPending:
		return now.Before(b.StartTime)
	default:
		return false
	}
}

// CanBeCancelled reports whether the booking may still be cancelled.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeAmended reports whether time or customer amendments are still allowed.
func (b *Booking) CanBeAmended(now time.Time) bool {
	return b.IsLive(now) && now.Before(b.EndTime())
}

// EffectiveStatus derives the externally reported status at the given time.
// A confirmed booking is buffered from BufferBeforeStart before its start,
// in progress until DoorAccessAfterEnd past its end, then complete.
func (b *Booking) EffectiveStatus(now time.Time) DerivedStatus {
	switch b.Status {
	case StatusCanceled:
		return DerivedCanceled
	case StatusOverdue:
		return DerivedOverdue
	case StatusPending:
		if !now.Before(b.StartTime) {
			return DerivedOverdue
		}
		return DerivedPending
	case StatusConfirmed:
		switch {
		case !now.Before(b.EndTime().Add(DoorAccessAfterEnd)):
			return DerivedComplete
		case !now.Before(b.StartTime):
			return DerivedInProgress
		case !now.Before(b.StartTime.Add(-BufferBeforeStart)):
			return DerivedBuffered
		default:
			return DerivedConfirmed
		}
	default:
		return DerivedStatus(b.Status)
	}
}
