package amend_booking

import (
	"context"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/identitysvc"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/paygateway"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateSchedule(ctx context.Context, id int64, startTime time.Time, durationHours int) error
	TransferCustomer(ctx context.Context, id int64, customer domain.IdentityRef) error
}

// HoldRepository интерфейс репозитория временных hold
type HoldRepository interface {
	Create(ctx context.Context, h *domain.TemporaryHold) (*domain.TemporaryHold, error)
	GetByID(ctx context.Context, id string) (*domain.TemporaryHold, error)
	Delete(ctx context.Context, id string) error
	UpdateState(ctx context.Context, id string, state domain.HoldState) error
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
	IncrementalQuote(unit *domain.Unit, additionalHours int) (int64, error)
}

// IdentityClient интерфейс клиента сервиса идентичности
// Для передачи брони группе членство проверяется напрямую: открытая группа
// принимает и не-участников
type IdentityClient interface {
	GetGroup(ctx context.Context, groupID int64) (*identitysvc.Group, error)
}

// PaymentGateway интерфейс клиента платежного шлюза
type PaymentGateway interface {
	Authorize(ctx context.Context, orderID string, amount int64, customerKey string) (*paygateway.Authorization, error)
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
