package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	bookingRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/booking"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	cash    *domain.CashPaymentStatus
	online  *domain.OnlinePaymentTransaction

	confirmed         bool
	cashConfirmed     bool
	cashRefunded      bool
	onlineRefunded    bool
	onlineRefundPrice int64
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) Confirm(ctx context.Context, id int64, confirmedAt time.Time) error {
	f.confirmed = true
	return nil
}

func (f *fakeBookingRepo) GetCashPaymentByBookingID(ctx context.Context, bookingID int64) (*domain.CashPaymentStatus, error) {
	if f.cash == nil {
		return nil, bookingRepo.ErrPaymentNotFound
	}
	return f.cash, nil
}

func (f *fakeBookingRepo) ConfirmCashPayment(ctx context.Context, bookingID int64, confirmedAt time.Time) error {
	if f.cash == nil {
		return bookingRepo.ErrPaymentNotFound
	}
	f.cashConfirmed = true
	return nil
}

func (f *fakeBookingRepo) MarkCashRefunded(ctx context.Context, bookingID int64, refundedAt time.Time) error {
	f.cashRefunded = true
	return nil
}

func (f *fakeBookingRepo) GetOnlinePaymentByBookingID(ctx context.Context, bookingID int64) (*domain.OnlinePaymentTransaction, error) {
	if f.online == nil {
		return nil, bookingRepo.ErrPaymentNotFound
	}
	return f.online, nil
}

func (f *fakeBookingRepo) MarkOnlineRefunded(ctx context.Context, bookingID int64, refundPrice int64, refundedAt time.Time) error {
	f.onlineRefunded = true
	f.onlineRefundPrice = refundPrice
	return nil
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeBookingRepo) *Service {
	return NewService(repo, nopLogger{}).WithTimeProvider(&fixedTime{now: testNow})
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		UnitID:        "room-a",
		HolderUserID:  10,
		StartTime:     testNow.Add(24 * time.Hour),
		DurationHours: 2,
		Status:        domain.StatusPending,
	}
}

func TestConfirmCash(t *testing.T) {
	t.Run("staff confirms pending booking", func(t *testing.T) {
		repo := &fakeBookingRepo{
			booking: pendingBooking(),
			cash:    &domain.CashPaymentStatus{BookingID: 1, Price: 30000},
		}
		svc := newTestService(repo)

		booking, err := svc.ConfirmCash(context.Background(), 1, Actor{UserID: 99, Staff: true})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, booking.Status)
		require.NotNil(t, booking.ConfirmedAt)
		assert.Equal(t, testNow, *booking.ConfirmedAt)
		assert.True(t, repo.confirmed)
		assert.True(t, repo.cashConfirmed)
	})

	t.Run("non-staff denied", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: pendingBooking()}
		svc := newTestService(repo)

		_, err := svc.ConfirmCash(context.Background(), 1, Actor{UserID: 10})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.False(t, repo.confirmed)
	})

	t.Run("already confirmed rejected", func(t *testing.T) {
		b := pendingBooking()
		b.Status = domain.StatusConfirmed
		svc := newTestService(&fakeBookingRepo{booking: b})

		_, err := svc.ConfirmCash(context.Background(), 1, Actor{Staff: true})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("missing booking", func(t *testing.T) {
		svc := newTestService(&fakeBookingRepo{})

		_, err := svc.ConfirmCash(context.Background(), 1, Actor{Staff: true})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("booking without payment record still confirms", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: pendingBooking()}
		svc := newTestService(repo)

		booking, err := svc.ConfirmCash(context.Background(), 1, Actor{Staff: true})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, booking.Status)
		assert.False(t, repo.cashConfirmed)
	})
}

func TestRefund(t *testing.T) {
	account := "110-4567-8901"

	t.Run("pending cash refund processed", func(t *testing.T) {
		repo := &fakeBookingRepo{
			booking: pendingBooking(),
			cash: &domain.CashPaymentStatus{
				BookingID:       1,
				Price:           30000,
				RefundRequested: true,
				RefundAccount:   &account,
			},
		}
		svc := newTestService(repo)

		cash, err := svc.Refund(context.Background(), 1, Actor{Staff: true})
		require.NoError(t, err)
		require.NotNil(t, cash)
		assert.True(t, cash.Refunded)
		require.NotNil(t, cash.RefundedAt)
		assert.True(t, repo.cashRefunded)
	})

	t.Run("no pending cash refund", func(t *testing.T) {
		repo := &fakeBookingRepo{
			booking: pendingBooking(),
			cash:    &domain.CashPaymentStatus{BookingID: 1, Price: 30000},
		}
		svc := newTestService(repo)

		_, err := svc.Refund(context.Background(), 1, Actor{Staff: true})
		assert.ErrorIs(t, err, ErrNoRefundPending)
	})

	t.Run("online payment refunded in full", func(t *testing.T) {
		repo := &fakeBookingRepo{
			booking: pendingBooking(),
			online:  &domain.OnlinePaymentTransaction{BookingID: 1, Price: 45000},
		}
		svc := newTestService(repo)

		cash, err := svc.Refund(context.Background(), 1, Actor{Staff: true})
		require.NoError(t, err)
		assert.Nil(t, cash)
		assert.True(t, repo.onlineRefunded)
		assert.Equal(t, int64(45000), repo.onlineRefundPrice)
	})

	t.Run("online already refunded", func(t *testing.T) {
		repo := &fakeBookingRepo{
			booking: pendingBooking(),
			online:  &domain.OnlinePaymentTransaction{BookingID: 1, Price: 45000, Refunded: true},
		}
		svc := newTestService(repo)

		_, err := svc.Refund(context.Background(), 1, Actor{Staff: true})
		assert.ErrorIs(t, err, ErrNoRefundPending)
	})

	t.Run("no payment record at all", func(t *testing.T) {
		svc := newTestService(&fakeBookingRepo{booking: pendingBooking()})

		_, err := svc.Refund(context.Background(), 1, Actor{Staff: true})
		assert.ErrorIs(t, err, ErrNoRefundPending)
	})

	t.Run("non-staff denied", func(t *testing.T) {
		svc := newTestService(&fakeBookingRepo{booking: pendingBooking()})

		_, err := svc.Refund(context.Background(), 1, Actor{UserID: 10})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
