package confirm_settlement

import (
	"context"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/paygateway"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateSchedule(ctx context.Context, id int64, startTime time.Time, durationHours int) error
	CreateOnlinePayment(ctx context.Context, p *domain.OnlinePaymentTransaction) (*domain.OnlinePaymentTransaction, error)
}

// HoldRepository интерфейс репозитория временных hold
type HoldRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.TemporaryHold, error)
	UpdateState(ctx context.Context, id string, state domain.HoldState) error
	MarkCommitted(ctx context.Context, id string, bookingID int64) error
	IncrementCaptureAttempts(ctx context.Context, id string) error
}

// AvailabilityEngine интерфейс движка доступности слотов
type AvailabilityEngine interface {
	ValidateSlot(ctx context.Context, unitID string, start time.Time, hours int, exclude availability.Exclusions) error
}

// PaymentGateway интерфейс клиента платежного шлюза
type PaymentGateway interface {
	Capture(ctx context.Context, orderID, paymentKey string, amount int64) (*paygateway.Capture, error)
	Void(ctx context.Context, orderID string) error
}

// CalendarCache интерфейс кэша календаря
type CalendarCache interface {
	Invalidate(ctx context.Context, unitID string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Counter интерфейс счетчика метрик
type Counter interface {
	Inc()
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
