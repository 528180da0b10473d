package begin_hold

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	holdRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/hold"
	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/paygateway"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	"github.com/soundroom/SRS-BookingEngine/internal/service/identity"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

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
	if _, ok := f.holds[id]; !ok {
		return holdRepo.ErrHoldNotFound
	}
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
}

func (f *fakeEngine) ValidateSlot(ctx context.Context, unitID string, start time.Time, hours int, exclude availability.Exclusions) error {
	f.exclude = exclude
	return f.err
}

type fakePricer struct{}

func (fakePricer) Quote(unit *domain.Unit, hours int) (int64, error) {
	return unit.HourlyRate * int64(hours), nil
}

type fakeResolver struct{ err error }

func (f *fakeResolver) Resolve(ctx context.Context, actorUserID int64, ref domain.IdentityRef) (*identity.Resolution, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &identity.Resolution{Customer: ref, HolderName: "Ким"}, nil
}

type fakeGateway struct {
	authErr     error
	authorized  int
	lastOrderID string
	lastAmount  int64
	lastCustKey string
}

func (f *fakeGateway) Authorize(ctx context.Context, orderID string, amount int64, customerKey string) (*paygateway.Authorization, error) {
	f.authorized++
	f.lastOrderID = orderID
	f.lastAmount = amount
	f.lastCustKey = customerKey
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
		Name:            "Room A",
		HourlyRate:      15000,
		MaxBookingHours: 4,
		HorizonStart:    testNow.Add(-24 * time.Hour),
		HorizonEnd:      testNow.AddDate(0, 0, 14),
		Active:          true,
	}
}

type env struct {
	uc       *UseCase
	holdRepo *fakeHoldRepo
	engine   *fakeEngine
	resolver *fakeResolver
	gateway  *fakeGateway
	cache    *fakeCache
	created  *fakeCounter
}

func newEnv() *env {
	e := &env{
		holdRepo: newFakeHoldRepo(),
		engine:   &fakeEngine{},
		resolver: &fakeResolver{},
		gateway:  &fakeGateway{},
		cache:    &fakeCache{},
		created:  &fakeCounter{},
	}
	e.uc = NewUseCase(
		e.holdRepo,
		&fakeUnitRepo{unit: testUnit()},
		e.engine,
		fakePricer{},
		e.resolver,
		e.gateway,
		e.cache,
		fakeTxManager{},
		30*time.Minute,
		e.created,
		nopLogger{},
	).WithTimeProvider(&fixedTime{now: testNow})
	return e
}

func holdRequest() *Request {
	return &Request{
		ActorUserID:  10,
		UnitID:       "room-a",
		TimeFrom:     testNow.Add(4 * time.Hour),
		DesiredHours: 2,
		Customer:     domain.IdentityRef{Kind: domain.IdentityIndividual, ID: 10},
	}
}

func TestExecuteStartsSaga(t *testing.T) {
	e := newEnv()

	resp, err := e.uc.Execute(context.Background(), holdRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.HoldID)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, int64(30000), resp.QuotedPrice)
	assert.Contains(t, resp.RedirectURL, resp.OrderID)
	assert.Equal(t, testNow.Add(30*time.Minute), resp.ExpiresAt)

	require.NotNil(t, e.holdRepo.created)
	stored := e.holdRepo.holds[resp.HoldID]
	require.NotNil(t, stored)
	assert.Equal(t, domain.HoldAwaitingGateway, stored.State)
	assert.Equal(t, "Ким", stored.HolderName)
	assert.Equal(t, int64(30000), stored.QuotedPrice)

	assert.Equal(t, "user-10", e.gateway.lastCustKey)
	assert.Equal(t, int64(30000), e.gateway.lastAmount)
	assert.Equal(t, 1, e.created.count)
	assert.Equal(t, 1, e.cache.invalidations)
}

func TestExecuteTruncatesStartToHourGrid(t *testing.T) {
	e := newEnv()
	req := holdRequest()
	req.TimeFrom = testNow.Add(4*time.Hour + 25*time.Minute)

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	stored := e.holdRepo.holds[resp.HoldID]
	assert.Equal(t, testNow.Add(4*time.Hour), stored.StartTime)
}

func TestExecuteReplacesExistingHold(t *testing.T) {
	e := newEnv()
	e.holdRepo.holds["old-hold"] = &domain.TemporaryHold{
		ID:           "old-hold",
		OrderID:      "old-order",
		UnitID:       "room-a",
		HolderUserID: 10,
		State:        domain.HoldAwaitingGateway,
	}

	req := holdRequest()
	existingID := "old-hold"
	req.ExistingHoldID = &existingID

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Прежний hold заменен, не задублирован
	assert.Equal(t, []string{"old-hold"}, e.holdRepo.deleted)
	assert.Len(t, e.holdRepo.holds, 1)
	assert.NotEqual(t, "old-hold", resp.HoldID)

	// Заменяемый hold исключается из проверки пересечений
	require.NotNil(t, e.engine.exclude.HoldID)
	assert.Equal(t, "old-hold", *e.engine.exclude.HoldID)
}

func TestExecuteReplaceForeignHoldDenied(t *testing.T) {
	e := newEnv()
	e.holdRepo.holds["old-hold"] = &domain.TemporaryHold{
		ID:           "old-hold",
		HolderUserID: 11,
		State:        domain.HoldAwaitingGateway,
	}

	req := holdRequest()
	existingID := "old-hold"
	req.ExistingHoldID = &existingID

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, e.holdRepo.deleted)
}

func TestExecuteReplaceCommittedHoldRejected(t *testing.T) {
	e := newEnv()
	e.holdRepo.holds["old-hold"] = &domain.TemporaryHold{
		ID:           "old-hold",
		HolderUserID: 10,
		State:        domain.HoldCommitted,
	}

	req := holdRequest()
	existingID := "old-hold"
	req.ExistingHoldID = &existingID

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecuteReplaceVanishedHoldTolerated(t *testing.T) {
	e := newEnv()

	// Прежний hold уже вычищен сборщиком - это не ошибка
	req := holdRequest()
	existingID := "gone-hold"
	req.ExistingHoldID = &existingID

	_, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecuteSlotConflict(t *testing.T) {
	e := newEnv()
	e.engine.err = availability.ErrSlotNotAvailable

	_, err := e.uc.Execute(context.Background(), holdRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, e.holdRepo.created)
	assert.Equal(t, 0, e.gateway.authorized)
}

func TestExecuteAuthorizationDeclined(t *testing.T) {
	e := newEnv()
	e.gateway.authErr = &paygateway.DeclinedError{Op: "authorize", Code: "card_declined", Message: "card declined"}

	_, err := e.uc.Execute(context.Background(), holdRequest())
	assert.ErrorIs(t, err, ErrPaymentFailed)

	// Слот отпущен сразу, а не висит до истечения TTL
	require.NotNil(t, e.holdRepo.created)
	assert.Equal(t, domain.HoldRolledBack, e.holdRepo.holds[e.holdRepo.created.ID].State)
	assert.Equal(t, 0, e.created.count)
	assert.Equal(t, 2, e.cache.invalidations)
}

func TestExecuteAuthorizationNetworkError(t *testing.T) {
	e := newEnv()
	e.gateway.authErr = errors.New("connection refused")

	_, err := e.uc.Execute(context.Background(), holdRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.HoldRolledBack, e.holdRepo.holds[e.holdRepo.created.ID].State)
}

func TestExecuteIdentityRejected(t *testing.T) {
	e := newEnv()
	e.resolver.err = identity.ErrNotGroupMember

	_, err := e.uc.Execute(context.Background(), holdRequest())
	assert.ErrorIs(t, err, ErrIdentity)
	assert.Equal(t, 0, e.gateway.authorized)
}

func TestExecuteUnknownUnit(t *testing.T) {
	e := newEnv()
	req := holdRequest()
	req.UnitID = "room-z"

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestExecuteValidation(t *testing.T) {
	e := newEnv()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero actor", func(r *Request) { r.ActorUserID = 0 }},
		{"blank unit", func(r *Request) { r.UnitID = " " }},
		{"zero time", func(r *Request) { r.TimeFrom = time.Time{} }},
		{"zero hours", func(r *Request) { r.DesiredHours = 0 }},
		{"malformed customer", func(r *Request) { r.Customer = domain.IdentityRef{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := holdRequest()
			tt.mutate(req)

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
