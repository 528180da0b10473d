package payment_fail

import (
	"errors"
	"net/http"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	cancelSettlement "github.com/soundroom/SRS-BookingEngine/internal/usecase/cancel_settlement"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgHoldNotFound       = "платежная сессия не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidState       = "платежная сессия уже завершена"
)

type Handler struct {
	failer SettlementFailer
	logger Logger
}

func NewHandler(failer SettlementFailer, logger Logger) *Handler {
	return &Handler{
		failer: failer,
		logger: logger,
	}
}

// PaymentFailRequest обратный вызов шлюза о неуспехе авторизации
type PaymentFailRequest struct {
	OrderID string `json:"orderId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PaymentFailResponse HTTP response model
type PaymentFailResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Handle POST /api/v1/payments/fail
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorUserID := middleware.UserID(r.Context())

	var req PaymentFailRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/fail - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.failer.Fail(r.Context(), &cancelSettlement.FailRequest{
		ActorUserID: actorUserID,
		OrderID:     req.OrderID,
		Code:        req.Code,
		Message:     req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelSettlement.ErrHoldNotFound):
			h.logger.Warn("POST /payments/fail - Hold not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, cancelSettlement.ErrAccessDenied):
			h.logger.Warn("POST /payments/fail - Access denied: order_id=%s, user_id=%d", req.OrderID, actorUserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelSettlement.ErrInvalidState):
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, cancelSettlement.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/fail - Failed to handle gateway failure: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/fail - Settlement rolled back after gateway failure: order_id=%s", req.OrderID)
	handlers.RespondJSON(w, http.StatusOK, &PaymentFailResponse{
		OrderID: result.OrderID,
		Status:  "rolled_back",
	})
}
