package payment_success

import (
	"errors"
	"net/http"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	confirmSettlement "github.com/soundroom/SRS-BookingEngine/internal/usecase/confirm_settlement"
)

const (
	msgOrderIDRequired = "требуется параметр orderId"
	msgHoldNotFound    = "платежная сессия не найдена"
	msgForbidden       = "доступ запрещен"
	msgHoldExpired     = "время на оплату истекло, начните бронирование заново"
	msgInvalidState    = "платежная сессия уже завершена"
)

type Handler struct {
	previewer SettlementPreviewer
	logger    Logger
}

func NewHandler(previewer SettlementPreviewer, logger Logger) *Handler {
	return &Handler{
		previewer: previewer,
		logger:    logger,
	}
}

// PaymentSuccessResponse удерживаемый слот и сумма к подтверждению
// Денежных движений на этом шаге нет: пользователь видит, что оплачивает,
// и подтверждает сумму явным POST /payments/confirm
type PaymentSuccessResponse struct {
	OrderID       string `json:"orderId"`
	UnitID        string `json:"unitId"`
	StartTime     string `json:"startTime"`
	DurationHours int    `json:"durationHours"`
	Amount        int64  `json:"amount"`
	ExpiresAt     string `json:"expiresAt"`
}

// Handle GET /api/v1/payments/success?orderId=&paymentKey=&amount=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		handlers.RespondBadRequest(w, msgOrderIDRequired)
		return
	}

	actorUserID := middleware.UserID(r.Context())

	result, err := h.previewer.Preview(r.Context(), &confirmSettlement.PreviewRequest{
		ActorUserID: actorUserID,
		OrderID:     orderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmSettlement.ErrHoldNotFound):
			h.logger.Warn("GET /payments/success - Hold not found: order_id=%s", orderID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, confirmSettlement.ErrAccessDenied):
			h.logger.Warn("GET /payments/success - Access denied: order_id=%s, user_id=%d", orderID, actorUserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmSettlement.ErrHoldExpired):
			h.logger.Warn("GET /payments/success - Hold expired: order_id=%s", orderID)
			handlers.RespondError(w, http.StatusGone, msgHoldExpired)

		case errors.Is(err, confirmSettlement.ErrInvalidState):
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, confirmSettlement.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgOrderIDRequired)

		default:
			h.logger.Error("GET /payments/success - Failed to preview: order_id=%s, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &PaymentSuccessResponse{
		OrderID:       result.OrderID,
		UnitID:        result.UnitID,
		StartTime:     result.StartTime.Format(time.RFC3339),
		DurationHours: result.DurationHours,
		Amount:        result.QuotedPrice,
		ExpiresAt:     result.ExpiresAt.Format(time.RFC3339),
	})
}
