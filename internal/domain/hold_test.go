package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

func timeslotRange(start time.Time, hours int) timeslot.Range {
	return timeslot.Range{Start: start, Hours: hours}
}

func TestHoldBlocksSlot(t *testing.T) {
	now := hourUTC(12)
	h := &TemporaryHold{
		StartTime:     hourUTC(14),
		DurationHours: 2,
		ExpiresAt:     now.Add(30 * time.Minute),
	}

	blocking := []HoldState{HoldHolding, HoldAwaitingGateway, HoldSettling}
	for _, state := range blocking {
		h.State = state
		assert.True(t, h.BlocksSlot(now), "state %s", state)
	}

	h.State = HoldCommitted
	assert.False(t, h.BlocksSlot(now))
	h.State = HoldRolledBack
	assert.False(t, h.BlocksSlot(now))

	// Expiry releases the slot even in a blocking state
	h.State = HoldAwaitingGateway
	assert.False(t, h.BlocksSlot(h.ExpiresAt))
	assert.False(t, h.BlocksSlot(h.ExpiresAt.Add(time.Minute)))
}

func TestHoldIsExpired(t *testing.T) {
	h := &TemporaryHold{ExpiresAt: hourUTC(12)}

	assert.False(t, h.IsExpired(hourUTC(12).Add(-time.Second)))
	assert.True(t, h.IsExpired(hourUTC(12)))
	assert.True(t, h.IsExpired(hourUTC(13)))
}

func TestHoldCanRetryCapture(t *testing.T) {
	h := &TemporaryHold{CaptureAttempts: 0}
	assert.True(t, h.CanRetryCapture())

	h.CaptureAttempts = MaxCaptureAttempts - 1
	assert.True(t, h.CanRetryCapture())

	h.CaptureAttempts = MaxCaptureAttempts
	assert.False(t, h.CanRetryCapture())
}

func TestHoldIsAmendment(t *testing.T) {
	h := &TemporaryHold{}
	assert.False(t, h.IsAmendment())

	id := int64(42)
	h.AmendsBookingID = &id
	assert.True(t, h.IsAmendment())
}

func TestIdentityRef(t *testing.T) {
	user := IdentityRef{Kind: IdentityIndividual, ID: 7}
	assert.True(t, user.IsIndividual())
	assert.False(t, user.IsGroup())
	assert.True(t, user.Valid())

	group := IdentityRef{Kind: IdentityGroup, ID: 3}
	assert.True(t, group.IsGroup())
	assert.True(t, group.Valid())

	assert.False(t, IdentityRef{}.Valid())
	assert.False(t, IdentityRef{Kind: "company", ID: 1}.Valid())
	assert.False(t, IdentityRef{Kind: IdentityIndividual, ID: 0}.Valid())
}

func TestUnitHorizonAndDuration(t *testing.T) {
	u := &Unit{
		MaxBookingHours: 4,
		HorizonStart:    hourUTC(0),
		HorizonEnd:      hourUTC(23),
	}

	assert.True(t, u.AllowsDuration(1))
	assert.True(t, u.AllowsDuration(4))
	assert.False(t, u.AllowsDuration(0))
	assert.False(t, u.AllowsDuration(5))

	assert.True(t, u.WithinHorizon(timeslotRange(hourUTC(10), 2)))
	assert.True(t, u.WithinHorizon(timeslotRange(hourUTC(21), 2)))
	assert.False(t, u.WithinHorizon(timeslotRange(hourUTC(22), 2)))
	assert.False(t, u.WithinHorizon(timeslotRange(hourUTC(0).Add(-time.Hour), 2)))
}
