package cancel_booking

import (
	"context"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, canceledAt time.Time) error
	GetCashPaymentByBookingID(ctx context.Context, bookingID int64) (*domain.CashPaymentStatus, error)
	RequestCashRefund(ctx context.Context, bookingID int64, refundAccount *string, refundPrice int64) error
}

// CalendarCache интерфейс кэша календаря
type CalendarCache interface {
	Invalidate(ctx context.Context, unitID string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
