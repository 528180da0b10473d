package check_price

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	bookingRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/booking"
	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

type fakeUnitRepo struct {
	units map[string]*domain.Unit
}

func (f *fakeUnitRepo) GetByID(_ context.Context, id string) (*domain.Unit, error) {
	u, ok := f.units[id]
	if !ok {
		return nil, unitRepo.ErrUnitNotFound
	}
	return u, nil
}

type fakeEngine struct {
	validateErr  error
	lastExclude  availability.Exclusions
	lastStart    time.Time
	lastHours    int
	extension    int
	extensionErr error
}

func (f *fakeEngine) ValidateSlot(_ context.Context, _ string, start time.Time, hours int, exclude availability.Exclusions) error {
	f.lastStart = start
	f.lastHours = hours
	f.lastExclude = exclude
	return f.validateErr
}

func (f *fakeEngine) AvailableExtensionHours(_ context.Context, _ *domain.Booking) (int, error) {
	return f.extension, f.extensionErr
}

type fakePricer struct {
	rate int64
}

func (f *fakePricer) Quote(unit *domain.Unit, hours int) (int64, error) {
	if hours < 1 {
		return 0, assert.AnError
	}
	return unit.HourlyRate * int64(hours), nil
}

func (f *fakePricer) IncrementalQuote(unit *domain.Unit, additionalHours int) (int64, error) {
	if additionalHours < 0 {
		return 0, assert.AnError
	}
	return unit.HourlyRate * int64(additionalHours), nil
}

var testUnit = &domain.Unit{
	ID:              "room-a",
	Name:            "Репточка A",
	Active:          true,
	HourlyRate:      15000,
	MaxBookingHours: 4,
	HorizonStart:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	HorizonEnd:      time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC),
}

type env struct {
	bookings *fakeBookingRepo
	units    *fakeUnitRepo
	engine   *fakeEngine
	uc       *UseCase
}

func newEnv() *env {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	units := &fakeUnitRepo{units: map[string]*domain.Unit{"room-a": testUnit}}
	engine := &fakeEngine{}
	uc := NewUseCase(bookings, units, engine, &fakePricer{rate: 15000}, nopLogger{})
	return &env{bookings: bookings, units: units, engine: engine, uc: uc}
}

func TestExecuteQuotesNewBooking(t *testing.T) {
	e := newEnv()
	start := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

	resp, err := e.uc.Execute(context.Background(), &Request{
		UnitID:       "room-a",
		TimeFrom:     start,
		DesiredHours: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(45000), resp.TotalPrice)
	assert.Nil(t, resp.MaxAdditionalHours)
	assert.Equal(t, start, e.engine.lastStart)
	assert.Equal(t, 3, e.engine.lastHours)
	assert.Nil(t, e.engine.lastExclude.BookingID)
}

func TestExecuteTruncatesStartToHourGrid(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{
		UnitID:       "room-a",
		TimeFrom:     time.Date(2026, 3, 20, 10, 25, 13, 0, time.UTC),
		DesiredHours: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC), e.engine.lastStart)
}

func TestExecuteQuotesAmendment(t *testing.T) {
	e := newEnv()
	bookingID := int64(7)
	e.bookings.bookings[bookingID] = &domain.Booking{
		ID:            bookingID,
		UnitID:        "room-a",
		StartTime:     time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		DurationHours: 2,
		Status:        domain.StatusConfirmed,
	}
	e.engine.extension = 2

	resp, err := e.uc.Execute(context.Background(), &Request{
		UnitID:           "room-a",
		TimeFrom:         time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		DesiredHours:     3,
		ExcludeBookingID: &bookingID,
	})

	require.NoError(t, err)
	// Доплата только за дополнительный час сверх текущей длительности
	assert.Equal(t, int64(15000), resp.TotalPrice)
	require.NotNil(t, resp.MaxAdditionalHours)
	assert.Equal(t, 2, *resp.MaxAdditionalHours)
	// Собственное бронирование исключается из проверки пересечений
	require.NotNil(t, e.engine.lastExclude.BookingID)
	assert.Equal(t, bookingID, *e.engine.lastExclude.BookingID)
}

func TestExecuteAmendmentExplicitAdditionalHours(t *testing.T) {
	e := newEnv()
	bookingID := int64(7)
	e.bookings.bookings[bookingID] = &domain.Booking{
		ID:            bookingID,
		UnitID:        "room-a",
		StartTime:     time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		DurationHours: 2,
		Status:        domain.StatusConfirmed,
	}
	e.engine.extension = 1
	additional := 2

	resp, err := e.uc.Execute(context.Background(), &Request{
		UnitID:           "room-a",
		TimeFrom:         time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		DesiredHours:     4,
		AdditionalHours:  &additional,
		ExcludeBookingID: &bookingID,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(30000), resp.TotalPrice)
}

func TestExecuteAmendmentShrinkIsFree(t *testing.T) {
	e := newEnv()
	bookingID := int64(7)
	e.bookings.bookings[bookingID] = &domain.Booking{
		ID:            bookingID,
		UnitID:        "room-a",
		StartTime:     time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		DurationHours: 3,
		Status:        domain.StatusConfirmed,
	}

	resp, err := e.uc.Execute(context.Background(), &Request{
		UnitID:           "room-a",
		TimeFrom:         time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		DesiredHours:     2,
		ExcludeBookingID: &bookingID,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.TotalPrice)
}

func TestExecuteAmendmentUnknownBooking(t *testing.T) {
	e := newEnv()
	bookingID := int64(404)

	_, err := e.uc.Execute(context.Background(), &Request{
		UnitID:           "room-a",
		TimeFrom:         time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
		DesiredHours:     3,
		ExcludeBookingID: &bookingID,
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecuteAvailabilityErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		engineErr error
		wantErr   error
	}{
		{"занятый слот", availability.ErrSlotNotAvailable, ErrSlotNotAvailable},
		{"слот в прошлом", availability.ErrSlotInPast, ErrSlotInPast},
		{"недопустимая длительность", availability.ErrInvalidDuration, ErrInvalidDuration},
		{"за горизонтом", availability.ErrOutsideHorizon, ErrOutsideHorizon},
		{"юнит не найден движком", availability.ErrUnitNotFound, ErrUnitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			e.engine.validateErr = tt.engineErr

			_, err := e.uc.Execute(context.Background(), &Request{
				UnitID:       "room-a",
				TimeFrom:     time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
				DesiredHours: 2,
			})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecuteUnknownOrInactiveUnit(t *testing.T) {
	e := newEnv()
	e.units.units["room-b"] = &domain.Unit{ID: "room-b", Active: false, HourlyRate: 10000}

	for _, unitID := range []string{"room-x", "room-b"} {
		_, err := e.uc.Execute(context.Background(), &Request{
			UnitID:       unitID,
			TimeFrom:     time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC),
			DesiredHours: 2,
		})
		assert.ErrorIs(t, err, ErrUnitNotFound)
	}
}

func TestExecuteValidation(t *testing.T) {
	negative := -1
	tests := []struct {
		name string
		req  *Request
	}{
		{"пустой юнит", &Request{TimeFrom: time.Now(), DesiredHours: 2}},
		{"нулевое время", &Request{UnitID: "room-a", DesiredHours: 2}},
		{"нулевая длительность", &Request{UnitID: "room-a", TimeFrom: time.Now()}},
		{"отрицательная доплата", &Request{UnitID: "room-a", TimeFrom: time.Now(), DesiredHours: 2, AdditionalHours: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			_, err := e.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
