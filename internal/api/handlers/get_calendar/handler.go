package get_calendar

import (
	"errors"
	"net/http"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	getCalendar "github.com/soundroom/SRS-BookingEngine/internal/usecase/get_calendar"
)

const (
	msgUnitIDRequired = "требуется параметр unit_id"
	msgUnitNotFound   = "юнит не найден"
)

type Handler struct {
	useCase GetCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/calendar?unit_id=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	unitID := r.URL.Query().Get("unit_id")
	if unitID == "" {
		handlers.RespondBadRequest(w, msgUnitIDRequired)
		return
	}

	// Анонимному читателю достается маскированная проекция
	viewer := availability.Viewer{
		UserID: middleware.UserID(r.Context()),
		Staff:  middleware.IsStaff(r.Context()),
	}

	result, err := h.useCase.Execute(r.Context(), &getCalendar.Request{
		UnitID: unitID,
		Viewer: viewer,
	})
	if err != nil {
		switch {
		case errors.Is(err, getCalendar.ErrUnitNotFound):
			h.logger.Warn("GET /bookings/calendar - Unit not found: unit_id=%s", unitID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, getCalendar.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgUnitIDRequired)

		default:
			h.logger.Error("GET /bookings/calendar - Failed to get calendar: unit_id=%s, error=%v", unitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
