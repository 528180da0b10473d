package get_calendar

import (
	"time"

	getCalendar "github.com/soundroom/SRS-BookingEngine/internal/usecase/get_calendar"
)

// OccupiedSlotResponse занятый слот в маскированной читательской проекции
type OccupiedSlotResponse struct {
	Name          string `json:"name"`
	StartTime     string `json:"startTime"`
	DurationHours int    `json:"durationHours"`
	Confirmed     bool   `json:"confirmed"`
}

// CalendarResponse HTTP response model
type CalendarResponse struct {
	Start           string                 `json:"start"`
	End             string                 `json:"end"`
	MaxBookingHours int                    `json:"maxBookingHours"`
	Slots           []OccupiedSlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	slots := make([]OccupiedSlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, OccupiedSlotResponse{
			Name:          s.MaskedName,
			StartTime:     s.StartTime.Format(time.RFC3339),
			DurationHours: s.DurationHours,
			Confirmed:     s.Confirmed,
		})
	}

	return &CalendarResponse{
		Start:           resp.Start.Format(time.RFC3339),
		End:             resp.End.Format(time.RFC3339),
		MaxBookingHours: resp.MaxBookingHours,
		Slots:           slots,
	}
}
