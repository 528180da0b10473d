package cancel_settlement

import (
	"context"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

// HoldRepository интерфейс репозитория временных hold
type HoldRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.TemporaryHold, error)
	UpdateState(ctx context.Context, id string, state domain.HoldState) error
}

// PaymentGateway интерфейс клиента платежного шлюза
type PaymentGateway interface {
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
