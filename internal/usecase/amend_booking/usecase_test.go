package amend_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	bookingRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/booking"
	holdRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/hold"
	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/identitysvc"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/paygateway"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	booking *domain.Booking

	scheduleUpdated  bool
	newStart         time.Time
	newDuration      int
	transferred      bool
	transferCustomer domain.IdentityRef
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateSchedule(ctx context.Context, id int64, startTime time.Time, durationHours int) error {
	f.scheduleUpdated = true
	f.newStart = startTime
	f.newDuration = durationHours
	return nil
}

func (f *fakeBookingRepo) TransferCustomer(ctx context.Context, id int64, customer domain.IdentityRef) error {
	f.transferred = true
	f.transferCustomer = customer
	return nil
}

type fakeHoldRepo struct {
	holds   map[string]*domain.TemporaryHold
	created *domain.TemporaryHold
	deleted []string
}

func newFakeHoldRepo() *fakeHoldRepo {
	return &fakeHoldRepo{holds: map[string]*domain.TemporaryHold{}}
}

func (f *fakeHoldRepo) Create(ctx context.Context, h *domain.TemporaryHold) (*domain.TemporaryHold, error) {
	created := *h
	f.holds[created.ID] = &created
	f.created = &created
	return &created, nil
}

func (f *fakeHoldRepo) GetByID(ctx context.Context, id string) (*domain.TemporaryHold, error) {
	h, ok := f.holds[id]
	if !ok {
		return nil, holdRepo.ErrHoldNotFound
	}
	copied := *h
	return &copied, nil
}

func (f *fakeHoldRepo) Delete(ctx context.Context, id string) error {
	delete(f.holds, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeHoldRepo) UpdateState(ctx context.Context, id string, state domain.HoldState) error {
	h, ok := f.holds[id]
	if !ok {
		return holdRepo.ErrHoldNotFound
	}
	h.State = state
	return nil
}

type fakeUnitRepo struct{ unit *domain.Unit }

func (f *fakeUnitRepo) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	if f.unit == nil || f.unit.ID != id {
		return nil, unitRepo.ErrUnitNotFound
	}
	return f.unit, nil
}

type fakeEngine struct {
	err     error
	exclude availability.Exclusions
	start   time.Time
	hours   int
}

func (f *fakeEngine) ValidateSlot(ctx context.Context, unitID string, start time.Time, hours int, exclude availability.Exclusions) error {
	f.exclude = exclude
	f.start = start
	f.hours = hours
	return f.err
}

type fakePricer struct{ rate int64 }

func (f fakePricer) IncrementalQuote(unit *domain.Unit, additionalHours int) (int64, error) {
	return f.rate * int64(additionalHours), nil
}

type fakeIdentity struct {
	group *identitysvc.Group
	err   error
}

func (f *fakeIdentity) GetGroup(ctx context.Context, groupID int64) (*identitysvc.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.group, nil
}

type fakeGateway struct {
	authErr    error
	authorized int
}

func (f *fakeGateway) Authorize(ctx context.Context, orderID string, amount int64, customerKey string) (*paygateway.Authorization, error) {
	f.authorized++
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &paygateway.Authorization{OrderID: orderID, RedirectURL: "https://gateway.example/pay/" + orderID}, nil
}

type fakeCache struct{ invalidations int }

func (f *fakeCache) Invalidate(ctx context.Context, unitID string) { f.invalidations++ }

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCounter struct{ count int }

func (f *fakeCounter) Inc() { f.count++ }

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testUnit() *domain.Unit {
	return &domain.Unit{
		ID:              "room-a",
		HourlyRate:      15000,
		MaxBookingHours: 4,
		HorizonStart:    testNow.Add(-24 * time.Hour),
		HorizonEnd:      testNow.AddDate(0, 0, 14),
		Active:          true,
	}
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		UnitID:        "room-a",
		HolderUserID:  10,
		HolderName:    "Ким",
		Customer:      domain.IdentityRef{Kind: domain.IdentityIndividual, ID: 10},
		StartTime:     testNow.Add(4 * time.Hour),
		DurationHours: 2,
		Status:        domain.StatusConfirmed,
	}
}

type env struct {
	uc          *UseCase
	bookingRepo *fakeBookingRepo
	holdRepo    *fakeHoldRepo
	engine      *fakeEngine
	identity    *fakeIdentity
	gateway     *fakeGateway
	cache       *fakeCache
	created     *fakeCounter
}

func newEnv(booking *domain.Booking) *env {
	e := &env{
		bookingRepo: &fakeBookingRepo{booking: booking},
		holdRepo:    newFakeHoldRepo(),
		engine:      &fakeEngine{},
		identity:    &fakeIdentity{},
		gateway:     &fakeGateway{},
		cache:       &fakeCache{},
		created:     &fakeCounter{},
	}
	e.uc = NewUseCase(
		e.bookingRepo,
		e.holdRepo,
		&fakeUnitRepo{unit: testUnit()},
		e.engine,
		fakePricer{rate: 15000},
		e.identity,
		e.gateway,
		e.cache,
		fakeTxManager{},
		30*time.Minute,
		e.created,
		nopLogger{},
	).WithTimeProvider(&fixedTime{now: testNow})
	return e
}

func TestExecuteFreeReschedule(t *testing.T) {
	e := newEnv(confirmedBooking())
	newStart := testNow.Add(6 * time.Hour)

	resp, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID: 10,
		BookingID:   1,
		NewStart:    &newStart,
	})
	require.NoError(t, err)

	// Перенос бесплатен и применяется сразу
	assert.False(t, resp.PaymentRequired)
	assert.Equal(t, int64(0), resp.IncrementalPrice)
	assert.Equal(t, newStart, resp.Booking.StartTime)
	assert.Equal(t, 2, resp.Booking.DurationHours)

	assert.True(t, e.bookingRepo.scheduleUpdated)
	assert.Equal(t, newStart, e.bookingRepo.newStart)
	assert.Nil(t, e.holdRepo.created)
	assert.Equal(t, 0, e.gateway.authorized)
	assert.Equal(t, 1, e.cache.invalidations)

	// Собственная бронь исключена из проверки пересечений
	require.NotNil(t, e.engine.exclude.BookingID)
	assert.Equal(t, int64(1), *e.engine.exclude.BookingID)
}

func TestExecutePaidExtensionStartsSaga(t *testing.T) {
	e := newEnv(confirmedBooking())

	resp, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID:     10,
		BookingID:       1,
		AdditionalHours: 2,
	})
	require.NoError(t, err)

	assert.True(t, resp.PaymentRequired)
	assert.Equal(t, int64(30000), resp.IncrementalPrice)
	assert.NotEmpty(t, resp.HoldID)
	assert.NotEmpty(t, resp.OrderID)
	assert.Contains(t, resp.RedirectURL, resp.OrderID)

	// Бронь не тронута до фиксации оплаты
	assert.False(t, e.bookingRepo.scheduleUpdated)

	// Hold резервирует весь будущий интервал и помнит изменяемую бронь
	hold := e.holdRepo.created
	require.NotNil(t, hold)
	assert.Equal(t, 4, hold.DurationHours)
	assert.Equal(t, e.bookingRepo.booking.StartTime, hold.StartTime)
	require.NotNil(t, hold.AmendsBookingID)
	assert.Equal(t, int64(1), *hold.AmendsBookingID)
	assert.Equal(t, int64(30000), hold.QuotedPrice)
	assert.Equal(t, domain.HoldAwaitingGateway, e.holdRepo.holds[hold.ID].State)

	assert.Equal(t, 1, e.created.count)
}

func TestExecutePaidExtensionAuthorizationDeclined(t *testing.T) {
	e := newEnv(confirmedBooking())
	e.gateway.authErr = &paygateway.DeclinedError{Op: "authorize", Code: "card_declined", Message: "declined"}

	_, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID:     10,
		BookingID:       1,
		AdditionalHours: 1,
	})
	assert.ErrorIs(t, err, ErrPaymentFailed)

	assert.Equal(t, domain.HoldRolledBack, e.holdRepo.holds[e.holdRepo.created.ID].State)
	assert.False(t, e.bookingRepo.scheduleUpdated)
	assert.Equal(t, 0, e.created.count)
}

func TestExecuteRescheduleWithExtension(t *testing.T) {
	e := newEnv(confirmedBooking())
	newStart := testNow.Add(8 * time.Hour)

	resp, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID:     10,
		BookingID:       1,
		NewStart:        &newStart,
		AdditionalHours: 1,
	})
	require.NoError(t, err)

	// Оплачиваются только дополнительные часы, перенос входит в hold бесплатно
	assert.True(t, resp.PaymentRequired)
	assert.Equal(t, int64(15000), resp.IncrementalPrice)
	assert.Equal(t, newStart, e.holdRepo.created.StartTime)
	assert.Equal(t, 3, e.holdRepo.created.DurationHours)
}

func TestExecuteScheduleConflict(t *testing.T) {
	e := newEnv(confirmedBooking())
	e.engine.err = availability.ErrSlotNotAvailable
	newStart := testNow.Add(6 * time.Hour)

	_, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID: 10,
		BookingID:   1,
		NewStart:    &newStart,
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.False(t, e.bookingRepo.scheduleUpdated)
}

func TestExecuteAmendAfterEndRejected(t *testing.T) {
	b := confirmedBooking()
	b.StartTime = testNow.Add(-3 * time.Hour) // закончилась час назад
	e := newEnv(b)
	newStart := testNow.Add(6 * time.Hour)

	_, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID: 10,
		BookingID:   1,
		NewStart:    &newStart,
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecuteTransferToOpenGroup(t *testing.T) {
	e := newEnv(confirmedBooking())
	// Открытая группа принимает и не-участников
	e.identity.group = &identitysvc.Group{ID: 5, OwnerUserID: 77, Open: true}
	groupID := int64(5)

	resp, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID:       10,
		BookingID:         1,
		TransferToGroupID: &groupID,
	})
	require.NoError(t, err)

	assert.True(t, e.bookingRepo.transferred)
	assert.Equal(t, domain.IdentityGroup, resp.Booking.Customer.Kind)
	assert.Equal(t, int64(5), resp.Booking.Customer.ID)
}

func TestExecuteTransferToClosedGroup(t *testing.T) {
	groupID := int64(5)

	t.Run("member allowed", func(t *testing.T) {
		e := newEnv(confirmedBooking())
		e.identity.group = &identitysvc.Group{ID: 5, OwnerUserID: 77, MemberIDs: []int64{10}}

		_, err := e.uc.Execute(context.Background(), &Request{
			ActorUserID:       10,
			BookingID:         1,
			TransferToGroupID: &groupID,
		})
		require.NoError(t, err)
		assert.True(t, e.bookingRepo.transferred)
	})

	t.Run("non-member denied", func(t *testing.T) {
		e := newEnv(confirmedBooking())
		e.identity.group = &identitysvc.Group{ID: 5, OwnerUserID: 77, MemberIDs: []int64{78}}

		_, err := e.uc.Execute(context.Background(), &Request{
			ActorUserID:       10,
			BookingID:         1,
			TransferToGroupID: &groupID,
		})
		assert.ErrorIs(t, err, ErrTransferNotAllowed)
		assert.False(t, e.bookingRepo.transferred)
	})
}

func TestExecuteTransferIsOneWay(t *testing.T) {
	b := confirmedBooking()
	b.Customer = domain.IdentityRef{Kind: domain.IdentityGroup, ID: 3}
	e := newEnv(b)
	groupID := int64(5)

	_, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID:       10,
		BookingID:         1,
		TransferToGroupID: &groupID,
	})
	assert.ErrorIs(t, err, ErrTransferNotAllowed)
}

func TestExecuteTransferRequiresHolder(t *testing.T) {
	e := newEnv(confirmedBooking())
	e.identity.group = &identitysvc.Group{ID: 5, Open: true}
	groupID := int64(5)

	// Даже персонал не передает чужую бронь
	_, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID:       99,
		Staff:             true,
		BookingID:         1,
		TransferToGroupID: &groupID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecuteTransferUnknownGroup(t *testing.T) {
	e := newEnv(confirmedBooking())
	e.identity.err = identitysvc.ErrGroupNotFound
	groupID := int64(5)

	_, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID:       10,
		BookingID:         1,
		TransferToGroupID: &groupID,
	})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestExecuteValidation(t *testing.T) {
	e := newEnv(confirmedBooking())
	groupID := int64(5)
	newStart := testNow.Add(6 * time.Hour)

	tests := []struct {
		name string
		req  *Request
	}{
		{"nothing to amend", &Request{ActorUserID: 10, BookingID: 1}},
		{"mixed branches", &Request{ActorUserID: 10, BookingID: 1, NewStart: &newStart, TransferToGroupID: &groupID}},
		{"negative hours", &Request{ActorUserID: 10, BookingID: 1, AdditionalHours: -1}},
		{"zero actor", &Request{BookingID: 1, AdditionalHours: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecuteForeignBookingDenied(t *testing.T) {
	e := newEnv(confirmedBooking())

	_, err := e.uc.Execute(context.Background(), &Request{
		ActorUserID:     11,
		BookingID:       1,
		AdditionalHours: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
