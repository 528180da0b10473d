package confirm_cash

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
	msgForbidden        = "подтверждение оплаты доступно только персоналу"
	msgInvalidState     = "бронирование не ожидает подтверждения"
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

// ConfirmCashResponse HTTP response model
type ConfirmCashResponse struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	ConfirmedAt string `json:"confirmedAt"`
}

// Handle PATCH /api/v1/bookings/{bookingId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/confirm - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor := lifecycle.Actor{
		UserID: middleware.UserID(r.Context()),
		Staff:  middleware.IsStaff(r.Context()),
	}

	booking, err := h.service.ConfirmCash(r.Context(), bookingID, actor)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Access denied: booking_id=%d, user_id=%d",
				bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrInvalidState):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Invalid state: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidState)

		default:
			h.logger.Error("PATCH /bookings/{id}/confirm - Failed to confirm: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := &ConfirmCashResponse{
		ID:     booking.ID,
		Status: string(booking.Status),
	}
	if booking.ConfirmedAt != nil {
		resp.ConfirmedAt = booking.ConfirmedAt.Format(time.RFC3339)
	}

	h.logger.Info("PATCH /bookings/{id}/confirm - Booking confirmed: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
