package domain

import (
	"time"

	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// HoldState represents the state of a payment saga instance. The hold record
// doubles as the saga record, keyed by its gateway order id.
type HoldState string

const (
	HoldHolding         HoldState = "holding"
	HoldAwaitingGateway HoldState = "awaiting_gateway"
	HoldSettling        HoldState = "settling"
	HoldCommitted       HoldState = "committed"
	HoldRolledBack      HoldState = "rolled_back"
)

// TemporaryHold is an ephemeral admission-control record reserving a slot
// while an external payment is in flight. It occupies the same overlap-check
// space as live bookings and is reclaimed by expiry if never committed.
type TemporaryHold struct {
	ID            string // uuid
	OrderID       string // uuid, the gateway round-trip key
	UnitID        string
	HolderUserID  int64
	Customer      IdentityRef
	StartTime     time.Time // UTC, hour-aligned
	DurationHours int
	QuotedPrice   int64 // whole currency units, authoritative for the saga
	State         HoldState

	HolderName string

	// AmendsBookingID is set when the hold settles an amendment of an
	// existing booking instead of creating a new one.
	AmendsBookingID *int64

	// CommittedBookingID is set once the saga commits; replayed
	// confirmations return this booking without side effects.
	CommittedBookingID *int64

	// CaptureAttempts counts failed gateway captures; one retry is allowed.
	CaptureAttempts int

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the held interval.
func (h *TemporaryHold) Range() timeslot.Range {
	return timeslot.Range{Start: h.StartTime, Hours: h.DurationHours}
}

// IsExpired reports whether the hold's TTL has passed.
func (h *TemporaryHold) IsExpired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// BlocksSlot reports whether the hold still occupies its interval: committed
// holds hand the slot over to their booking, rolled back and expired holds
// release it.
func (h *TemporaryHold) BlocksSlot(now time.Time) bool {
	switch h.State {
	case HoldHolding, HoldAwaitingGateway, HoldSettling:
		return !h.IsExpired(now)
	default:
		return false
	}
}

// IsAmendment reports whether the hold settles into an existing booking.
func (h *TemporaryHold) IsAmendment() bool {
	return h.AmendsBookingID != nil
}

// CanRetryCapture reports whether another gateway capture attempt is allowed.
func (h *TemporaryHold) CanRetryCapture() bool {
	return h.CaptureAttempts < MaxCaptureAttempts
}
