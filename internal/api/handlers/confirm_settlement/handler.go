package confirm_settlement

import (
	"errors"
	"net/http"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	confirmSettlement "github.com/soundroom/SRS-BookingEngine/internal/usecase/confirm_settlement"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgHoldNotFound       = "платежная сессия не найдена"
	msgForbidden          = "доступ запрещен"
	msgHoldExpired        = "время на оплату истекло, начните бронирование заново"
	msgInvalidState       = "платежная сессия уже завершена"
	msgAmountMismatch     = "сумма платежа не совпадает с ценой бронирования"
	msgPaymentFailed      = "платеж отклонен"
	msgSlotNotAvailable   = "слот больше недоступен, платеж отменен"
)

type Handler struct {
	useCase ConfirmSettlementUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmSettlementUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorUserID := middleware.UserID(r.Context())

	var req ConfirmSettlementRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmSettlement.Request{
		ActorUserID: actorUserID,
		OrderID:     req.OrderID,
		PaymentKey:  req.PaymentKey,
		Amount:      req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmSettlement.ErrHoldNotFound):
			h.logger.Warn("POST /payments/confirm - Hold not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, confirmSettlement.ErrAccessDenied):
			h.logger.Warn("POST /payments/confirm - Access denied: order_id=%s, user_id=%d", req.OrderID, actorUserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmSettlement.ErrHoldExpired):
			h.logger.Warn("POST /payments/confirm - Hold expired: order_id=%s", req.OrderID)
			handlers.RespondError(w, http.StatusGone, msgHoldExpired)

		case errors.Is(err, confirmSettlement.ErrInvalidState):
			h.logger.Warn("POST /payments/confirm - Invalid state: order_id=%s", req.OrderID)
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, confirmSettlement.ErrAmountMismatch):
			h.logger.Warn("POST /payments/confirm - Amount mismatch: order_id=%s, amount=%d", req.OrderID, req.Amount)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgAmountMismatch)

		case errors.Is(err, confirmSettlement.ErrPaymentFailed):
			h.logger.Warn("POST /payments/confirm - Capture failed: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)

		case errors.Is(err, confirmSettlement.ErrSlotNotAvailable):
			h.logger.Error("POST /payments/confirm - Slot lost: order_id=%s", req.OrderID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, confirmSettlement.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/confirm - Failed to confirm settlement: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.AlreadyCommitted {
		status = http.StatusOK
	}

	h.logger.Info("POST /payments/confirm - Settlement committed: order_id=%s, booking_id=%d, replay=%t",
		req.OrderID, result.Booking.ID, result.AlreadyCommitted)
	handlers.RespondJSON(w, status, FromUseCaseResponse(req.OrderID, result))
}
