package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	cancelBooking "github.com/soundroom/SRS-BookingEngine/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgBookingNotFound   = "бронирование не найдено"
	msgForbidden         = "доступ запрещен"
	msgCannotCancel      = "бронирование не может быть отменено"
	msgRefundAccountNeed = "для возврата требуется счет (параметр refund_account)"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/bookings/{bookingId}?refund_account=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actorUserID := middleware.UserID(r.Context())

	var refundAccount *string
	if acc := r.URL.Query().Get("refund_account"); acc != "" {
		refundAccount = &acc
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		ActorUserID:   actorUserID,
		Staff:         middleware.IsStaff(r.Context()),
		BookingID:     bookingID,
		RefundAccount: refundAccount,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("DELETE /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, cancelBooking.ErrAccessDenied):
			h.logger.Warn("DELETE /bookings/{id} - Access denied: booking_id=%d, user_id=%d", bookingID, actorUserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelBooking.ErrInvalidState):
			h.logger.Warn("DELETE /bookings/{id} - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgCannotCancel)

		case errors.Is(err, cancelBooking.ErrRefundAccountRequired):
			h.logger.Warn("DELETE /bookings/{id} - Refund account required: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgRefundAccountNeed)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("DELETE /bookings/{id} - Failed to cancel booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Booking canceled: booking_id=%d, refund_requested=%t",
		bookingID, result.CashPayment != nil)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
