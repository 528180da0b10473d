package refund_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	"github.com/soundroom/SRS-BookingEngine/internal/service/lifecycle"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgForbidden        = "обработка возвратов доступна только персоналу"
	msgNoRefundPending  = "ожидающий запрос возврата отсутствует"
)

type Handler struct {
	service LifecycleService
	logger  Logger
}

func NewHandler(service LifecycleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RefundResponse HTTP response model
// cashPaymentStatus null для возврата по онлайн-платежу
type RefundResponse struct {
	BookingID  int64                `json:"bookingId"`
	Refunded   bool                 `json:"refunded"`
	RefundedAt string               `json:"refundedAt,omitempty"`
	Cash       *CashPaymentResponse `json:"cashPaymentStatus"`
}

// CashPaymentResponse наличный платеж после возврата
type CashPaymentResponse struct {
	ID            int64   `json:"id"`
	Price         int64   `json:"price"`
	RefundAccount *string `json:"refundAccount,omitempty"`
	RefundPrice   *int64  `json:"refundPrice,omitempty"`
}

// Handle PATCH /api/v1/bookings/{bookingId}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/refund - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor := lifecycle.Actor{
		UserID: middleware.UserID(r.Context()),
		Staff:  middleware.IsStaff(r.Context()),
	}

	cash, err := h.service.Refund(r.Context(), bookingID, actor)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/refund - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/refund - Access denied: booking_id=%d, user_id=%d",
				bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrNoRefundPending):
			h.logger.Warn("PATCH /bookings/{id}/refund - No refund pending: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgNoRefundPending)

		default:
			h.logger.Error("PATCH /bookings/{id}/refund - Failed to refund: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := &RefundResponse{BookingID: bookingID, Refunded: true}
	if cash != nil {
		if cash.RefundedAt != nil {
			resp.RefundedAt = cash.RefundedAt.Format(time.RFC3339)
		}
		resp.Cash = &CashPaymentResponse{
			ID:            cash.ID,
			Price:         cash.Price,
			RefundAccount: cash.RefundAccount,
			RefundPrice:   cash.RefundPrice,
		}
	}

	h.logger.Info("PATCH /bookings/{id}/refund - Refund processed: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
