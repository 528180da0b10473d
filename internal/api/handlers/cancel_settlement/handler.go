package cancel_settlement

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
	msgInvalidState       = "платежную сессию нельзя отменить в текущем состоянии"
)

type Handler struct {
	useCase CancelSettlementUseCase
	logger  Logger
}

func NewHandler(useCase CancelSettlementUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// CancelSettlementRequest HTTP request model
type CancelSettlementRequest struct {
	OrderID string `json:"orderId"`
}

// CancelSettlementResponse HTTP response model
type CancelSettlementResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Handle POST /api/v1/payments/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorUserID := middleware.UserID(r.Context())

	var req CancelSettlementRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelSettlement.Request{
		ActorUserID: actorUserID,
		OrderID:     req.OrderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelSettlement.ErrHoldNotFound):
			h.logger.Warn("POST /payments/cancel - Hold not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, cancelSettlement.ErrAccessDenied):
			h.logger.Warn("POST /payments/cancel - Access denied: order_id=%s, user_id=%d", req.OrderID, actorUserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelSettlement.ErrInvalidState):
			h.logger.Warn("POST /payments/cancel - Invalid state: order_id=%s", req.OrderID)
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, cancelSettlement.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/cancel - Failed to cancel settlement: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/cancel - Settlement rolled back: order_id=%s", req.OrderID)
	handlers.RespondJSON(w, http.StatusOK, &CancelSettlementResponse{
		OrderID: result.OrderID,
		Status:  "rolled_back",
	})
}
