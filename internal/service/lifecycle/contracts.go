package lifecycle

import (
	"context"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Confirm(ctx context.Context, id int64, confirmedAt time.Time) error
	GetCashPaymentByBookingID(ctx context.Context, bookingID int64) (*domain.CashPaymentStatus, error)
	ConfirmCashPayment(ctx context.Context, bookingID int64, confirmedAt time.Time) error
	MarkCashRefunded(ctx context.Context, bookingID int64, refundedAt time.Time) error
	GetOnlinePaymentByBookingID(ctx context.Context, bookingID int64) (*domain.OnlinePaymentTransaction, error)
	MarkOnlineRefunded(ctx context.Context, bookingID int64, refundPrice int64, refundedAt time.Time) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Actor инициатор административной операции
type Actor struct {
	UserID int64
	Staff  bool
}
