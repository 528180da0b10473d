package get_calendar

import (
	"context"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// UnitRepository интерфейс репозитория юнитов
type UnitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
}

// AvailabilityEngine интерфейс движка доступности слотов
type AvailabilityEngine interface {
	GetOccupiedSlots(ctx context.Context, unitID string, window timeslot.Window, viewer availability.Viewer) ([]domain.OccupiedSlot, error)
}

// CalendarCache интерфейс кэша календаря
type CalendarCache interface {
	Get(ctx context.Context, unitID string) ([]byte, bool)
	Set(ctx context.Context, unitID string, payload []byte)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
