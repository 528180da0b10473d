package begin_hold

import (
	"errors"
	"net/http"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	beginHold "github.com/soundroom/SRS-BookingEngine/internal/usecase/begin_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени начала, ожидается RFC3339"
	msgUnitNotFound       = "юнит не найден"
	msgHoldNotFound       = "заменяемый hold не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidState       = "hold нельзя заменить в текущем состоянии"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotInPast         = "выбранное время уже прошло"
	msgInvalidDuration    = "недопустимая длительность бронирования"
	msgOutsideHorizon     = "выбранное время за пределами доступного периода"
	msgIdentityRejected   = "заказчик не прошел проверку"
	msgPaymentFailed      = "не удалось авторизовать платеж"
)

type Handler struct {
	useCase BeginHoldUseCase
	logger  Logger
}

func NewHandler(useCase BeginHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/hold
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorUserID := middleware.UserID(r.Context())

	var req BeginHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/hold - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actorUserID)
	if err != nil {
		h.logger.Warn("POST /payments/hold - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, beginHold.ErrUnitNotFound):
			h.logger.Warn("POST /payments/hold - Unit not found: unit_id=%s", req.UnitID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, beginHold.ErrHoldNotFound):
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, beginHold.ErrAccessDenied):
			h.logger.Warn("POST /payments/hold - Access denied: user_id=%d", actorUserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, beginHold.ErrInvalidState):
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, beginHold.ErrSlotNotAvailable):
			h.logger.Warn("POST /payments/hold - Slot not available: user_id=%d, unit_id=%s", actorUserID, req.UnitID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, beginHold.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, beginHold.ErrInvalidDuration):
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, beginHold.ErrOutsideHorizon):
			handlers.RespondBadRequest(w, msgOutsideHorizon)

		case errors.Is(err, beginHold.ErrIdentity):
			h.logger.Warn("POST /payments/hold - Identity rejected: user_id=%d, error=%v", actorUserID, err)
			handlers.RespondForbidden(w, msgIdentityRejected)

		case errors.Is(err, beginHold.ErrPaymentFailed):
			h.logger.Warn("POST /payments/hold - Authorization failed: user_id=%d, error=%v", actorUserID, err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)

		case errors.Is(err, beginHold.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/hold - Failed to begin hold: user_id=%d, unit_id=%s, error=%v",
				actorUserID, req.UnitID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/hold - Hold created: hold_id=%s, order_id=%s, user_id=%d",
		result.HoldID, result.OrderID, actorUserID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
