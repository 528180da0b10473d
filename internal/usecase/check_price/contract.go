package check_price

import (
	"context"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
}

// AvailabilityEngine интерфейс движка доступности слотов
type AvailabilityEngine interface {
	ValidateSlot(ctx context.Context, unitID string, start time.Time, hours int, exclude availability.Exclusions) error
	AvailableExtensionHours(ctx context.Context, b *domain.Booking) (int, error)
}

// Pricer интерфейс калькулятора стоимости
type Pricer interface {
	Quote(unit *domain.Unit, hours int) (int64, error)
	IncrementalQuote(unit *domain.Unit, additionalHours int) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
