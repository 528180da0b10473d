package check_price

import (
	"errors"
	"net/http"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	checkPrice "github.com/soundroom/SRS-BookingEngine/internal/usecase/check_price"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени начала, ожидается RFC3339"
	msgUnitNotFound       = "юнит не найден"
	msgBookingNotFound    = "бронирование не найдено"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotInPast         = "выбранное время уже прошло"
	msgInvalidDuration    = "недопустимая длительность бронирования"
	msgOutsideHorizon     = "выбранное время за пределами доступного периода"
)

type Handler struct {
	useCase CheckPriceUseCase
	logger  Logger
}

func NewHandler(useCase CheckPriceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/check
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckPriceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/check - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/check - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkPrice.ErrUnitNotFound):
			h.logger.Warn("POST /bookings/check - Unit not found: unit_id=%s", req.UnitID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, checkPrice.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, checkPrice.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings/check - Slot not available: unit_id=%s", req.UnitID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, checkPrice.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, checkPrice.ErrInvalidDuration):
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, checkPrice.ErrOutsideHorizon):
			handlers.RespondBadRequest(w, msgOutsideHorizon)

		case errors.Is(err, checkPrice.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/check - Failed to check price: unit_id=%s, error=%v", req.UnitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
