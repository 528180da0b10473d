package create_booking

import (
	"context"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	"github.com/soundroom/SRS-BookingEngine/internal/service/identity"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	CreateCashPayment(ctx context.Context, p *domain.CashPaymentStatus) (*domain.CashPaymentStatus, error)
}

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
}

// AvailabilityEngine интерфейс движка доступности слотов
type AvailabilityEngine interface {
	ValidateSlot(ctx context.Context, unitID string, start time.Time, hours int, exclude availability.Exclusions) error
}

// Pricer интерфейс калькулятора стоимости
type Pricer interface {
	Quote(unit *domain.Unit, hours int) (int64, error)
}

// IdentityResolver интерфейс резолвера заказчика
type IdentityResolver interface {
	Resolve(ctx context.Context, actorUserID int64, ref domain.IdentityRef) (*identity.Resolution, error)
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
