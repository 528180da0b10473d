package availability

import (
	"context"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetLiveInWindow(ctx context.Context, unitID string, window timeslot.Window) ([]*domain.Booking, error)
}

// HoldRepository интерфейс репозитория временных hold
type HoldRepository interface {
	GetBlockingInWindow(ctx context.Context, unitID string, window timeslot.Window, now time.Time) ([]*domain.TemporaryHold, error)
}

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
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

// Viewer идентифицирует читателя календаря для маскировки имен
type Viewer struct {
	UserID int64
	Staff  bool
}

// Exclusions исключает собственные записи из проверки пересечений
// Используется при продлении существующей брони и повторном входе в сагу
type Exclusions struct {
	BookingID *int64
	HoldID    *string
}
