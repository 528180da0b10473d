package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/pkg/ptr"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetLiveInWindow(ctx context.Context, unitID string, window timeslot.Window) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.UnitID == unitID && window.Intersects(b.Range()) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeHoldRepo struct {
	holds []*domain.TemporaryHold
	err   error
}

func (f *fakeHoldRepo) GetBlockingInWindow(ctx context.Context, unitID string, window timeslot.Window, now time.Time) ([]*domain.TemporaryHold, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.TemporaryHold
	for _, h := range f.holds {
		if h.UnitID == unitID && window.Intersects(h.Range()) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeUnitRepo struct {
	units map[string]*domain.Unit
}

func (f *fakeUnitRepo) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	u, ok := f.units[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func hourUTC(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
}

func testUnit() *domain.Unit {
	return &domain.Unit{
		ID:              "room-a",
		Name:            "Room A",
		HourlyRate:      15000,
		MaxBookingHours: 4,
		HorizonStart:    hourUTC(0),
		HorizonEnd:      hourUTC(0).AddDate(0, 0, 14),
		Active:          true,
	}
}

func newTestService(bookings []*domain.Booking, holds []*domain.TemporaryHold, now time.Time) *Service {
	return NewService(
		&fakeBookingRepo{bookings: bookings},
		&fakeHoldRepo{holds: holds},
		&fakeUnitRepo{units: map[string]*domain.Unit{"room-a": testUnit()}},
		nopLogger{},
	).WithTimeProvider(&fixedTime{now: now})
}

func confirmedBooking(id int64, holderID int64, name string, start time.Time, hours int) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		UnitID:        "room-a",
		HolderUserID:  holderID,
		HolderName:    name,
		StartTime:     start,
		DurationHours: hours,
		Status:        domain.StatusConfirmed,
	}
}

func TestGetOccupiedSlotsMasking(t *testing.T) {
	now := hourUTC(9)
	booking := confirmedBooking(1, 10, "Мария", hourUTC(12), 2)
	svc := newTestService([]*domain.Booking{booking}, nil, now)
	window := timeslot.Window{Start: hourUTC(0), End: hourUTC(23)}

	// Аноним видит только первую руну имени
	slots, err := svc.GetOccupiedSlots(context.Background(), "room-a", window, Viewer{})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "М****", slots[0].MaskedName)
	assert.True(t, slots[0].Confirmed)

	// Держатель видит свое имя полностью
	slots, err = svc.GetOccupiedSlots(context.Background(), "room-a", window, Viewer{UserID: 10})
	require.NoError(t, err)
	assert.Equal(t, "Мария", slots[0].MaskedName)

	// Staff видит все имена полностью
	slots, err = svc.GetOccupiedSlots(context.Background(), "room-a", window, Viewer{UserID: 99, Staff: true})
	require.NoError(t, err)
	assert.Equal(t, "Мария", slots[0].MaskedName)

	// Другой пользователь - маска
	slots, err = svc.GetOccupiedSlots(context.Background(), "room-a", window, Viewer{UserID: 11})
	require.NoError(t, err)
	assert.Equal(t, "М****", slots[0].MaskedName)
}

func TestGetOccupiedSlotsFiltersDeadRecords(t *testing.T) {
	now := hourUTC(13)

	// Pending с прошедшим стартом больше не занимает слот
	stale := confirmedBooking(1, 10, "Ким", hourUTC(12), 2)
	stale.Status = domain.StatusPending

	expired := &domain.TemporaryHold{
		ID:            "h1",
		UnitID:        "room-a",
		HolderUserID:  20,
		HolderName:    "Пак",
		StartTime:     hourUTC(15),
		DurationHours: 1,
		State:         domain.HoldAwaitingGateway,
		ExpiresAt:     hourUTC(12),
	}
	active := &domain.TemporaryHold{
		ID:            "h2",
		UnitID:        "room-a",
		HolderUserID:  21,
		HolderName:    "Ли",
		StartTime:     hourUTC(16),
		DurationHours: 2,
		State:         domain.HoldAwaitingGateway,
		ExpiresAt:     hourUTC(14),
	}

	svc := newTestService([]*domain.Booking{stale}, []*domain.TemporaryHold{expired, active}, now)
	window := timeslot.Window{Start: hourUTC(0), End: hourUTC(23)}

	slots, err := svc.GetOccupiedSlots(context.Background(), "room-a", window, Viewer{Staff: true})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Ли", slots[0].MaskedName)
	assert.False(t, slots[0].Confirmed)
}

func TestValidateSlot(t *testing.T) {
	now := hourUTC(9)
	booking := confirmedBooking(1, 10, "Ким", hourUTC(12), 2) // [12:00, 14:00)
	hold := &domain.TemporaryHold{
		ID:            "h1",
		UnitID:        "room-a",
		StartTime:     hourUTC(16),
		DurationHours: 1,
		State:         domain.HoldHolding,
		ExpiresAt:     hourUTC(10),
	}
	svc := newTestService([]*domain.Booking{booking}, []*domain.TemporaryHold{hold}, now)
	ctx := context.Background()

	tests := []struct {
		name    string
		start   time.Time
		hours   int
		exclude Exclusions
		wantErr error
	}{
		{"free slot", hourUTC(10), 2, Exclusions{}, nil},
		{"touching booking end is free", hourUTC(14), 2, Exclusions{}, nil},
		{"overlaps booking", hourUTC(13), 2, Exclusions{}, ErrSlotNotAvailable},
		{"covers booking", hourUTC(11), 4, Exclusions{}, ErrSlotNotAvailable},
		{"overlaps hold", hourUTC(16), 1, Exclusions{}, ErrSlotNotAvailable},
		{"own booking excluded", hourUTC(12), 2, Exclusions{BookingID: ptr.Ptr(int64(1))}, nil},
		{"own hold excluded", hourUTC(16), 1, Exclusions{HoldID: ptr.Ptr("h1")}, nil},
		{"in the past", hourUTC(8), 1, Exclusions{}, ErrSlotInPast},
		{"zero duration", hourUTC(10), 0, Exclusions{}, ErrInvalidDuration},
		{"above unit cap", hourUTC(18), 5, Exclusions{}, ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateSlot(ctx, "room-a", tt.start, tt.hours, tt.exclude)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlotHorizonAndUnit(t *testing.T) {
	now := hourUTC(9)
	svc := newTestService(nil, nil, now)
	ctx := context.Background()

	err := svc.ValidateSlot(ctx, "room-a", hourUTC(0).AddDate(0, 0, 15), 1, Exclusions{})
	assert.ErrorIs(t, err, ErrOutsideHorizon)

	err = svc.ValidateSlot(ctx, "missing", hourUTC(10), 1, Exclusions{})
	assert.ErrorIs(t, err, ErrUnitNotFound)

	// Неактивный юнит неотличим от отсутствующего
	inactive := testUnit()
	inactive.Active = false
	svc = NewService(
		&fakeBookingRepo{},
		&fakeHoldRepo{},
		&fakeUnitRepo{units: map[string]*domain.Unit{"room-a": inactive}},
		nopLogger{},
	).WithTimeProvider(&fixedTime{now: now})
	err = svc.ValidateSlot(ctx, "room-a", hourUTC(10), 1, Exclusions{})
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestValidateSlotCurrentHourStillBookable(t *testing.T) {
	// Старт в текущем неполном часе не считается прошлым
	now := hourUTC(10).Add(20 * time.Minute)
	svc := newTestService(nil, nil, now)

	err := svc.ValidateSlot(context.Background(), "room-a", hourUTC(10), 1, Exclusions{})
	assert.NoError(t, err)
}

func TestAvailableExtensionHours(t *testing.T) {
	now := hourUTC(9)
	mine := confirmedBooking(1, 10, "Ким", hourUTC(10), 2) // [10:00, 12:00)
	ctx := context.Background()

	t.Run("unbounded up to unit cap", func(t *testing.T) {
		svc := newTestService([]*domain.Booking{mine}, nil, now)
		hours, err := svc.AvailableExtensionHours(ctx, mine)
		require.NoError(t, err)
		assert.Equal(t, 2, hours) // cap 4, already 2
	})

	t.Run("first occupied hour cuts the offer", func(t *testing.T) {
		// Сосед на [13:00, 14:00): доступен ровно один смежный час
		neighbor := confirmedBooking(2, 11, "Пак", hourUTC(13), 1)
		svc := newTestService([]*domain.Booking{mine, neighbor}, nil, now)
		hours, err := svc.AvailableExtensionHours(ctx, mine)
		require.NoError(t, err)
		assert.Equal(t, 1, hours)
	})

	t.Run("adjacent neighbor blocks entirely", func(t *testing.T) {
		neighbor := confirmedBooking(2, 11, "Пак", hourUTC(12), 1)
		svc := newTestService([]*domain.Booking{mine, neighbor}, nil, now)
		hours, err := svc.AvailableExtensionHours(ctx, mine)
		require.NoError(t, err)
		assert.Equal(t, 0, hours)
	})

	t.Run("blocking hold counts as occupied", func(t *testing.T) {
		hold := &domain.TemporaryHold{
			ID:            "h1",
			UnitID:        "room-a",
			StartTime:     hourUTC(13),
			DurationHours: 1,
			State:         domain.HoldSettling,
			ExpiresAt:     hourUTC(10),
		}
		svc := newTestService([]*domain.Booking{mine}, []*domain.TemporaryHold{hold}, now)
		hours, err := svc.AvailableExtensionHours(ctx, mine)
		require.NoError(t, err)
		assert.Equal(t, 1, hours)
	})

	t.Run("already at cap", func(t *testing.T) {
		full := confirmedBooking(3, 10, "Ким", hourUTC(10), 4)
		svc := newTestService([]*domain.Booking{full}, nil, now)
		hours, err := svc.AvailableExtensionHours(ctx, full)
		require.NoError(t, err)
		assert.Equal(t, 0, hours)
	})
}
