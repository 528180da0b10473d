package get_calendar

import (
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
)

// Request модель запроса календаря занятых слотов
type Request struct {
	UnitID string
	Viewer availability.Viewer
}

// Response модель ответа с окном доступности и занятыми слотами
type Response struct {
	Start           time.Time
	End             time.Time
	MaxBookingHours int
	Slots           []domain.OccupiedSlot
}
