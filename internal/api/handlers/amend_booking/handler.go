package amend_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
	"github.com/soundroom/SRS-BookingEngine/internal/api/middleware"
	amendBooking "github.com/soundroom/SRS-BookingEngine/internal/usecase/amend_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени начала, ожидается RFC3339"
	msgBookingNotFound    = "бронирование не найдено"
	msgUnitNotFound       = "юнит не найден"
	msgGroupNotFound      = "группа не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidState       = "бронирование нельзя изменить в текущем статусе"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotInPast         = "выбранное время уже прошло"
	msgInvalidDuration    = "недопустимая длительность бронирования"
	msgOutsideHorizon     = "выбранное время за пределами доступного периода"
	msgTransferNotAllowed = "передача бронирования группе недоступна"
	msgPaymentFailed      = "не удалось авторизовать доплату"
)

type Handler struct {
	useCase AmendBookingUseCase
	logger  Logger
}

func NewHandler(useCase AmendBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req AmendBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorUserID := middleware.UserID(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(actorUserID, middleware.IsStaff(r.Context()), bookingID)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, amendBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, amendBooking.ErrUnitNotFound):
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, amendBooking.ErrGroupNotFound):
			handlers.RespondNotFound(w, msgGroupNotFound)

		case errors.Is(err, amendBooking.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id} - Access denied: booking_id=%d, user_id=%d", bookingID, actorUserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, amendBooking.ErrInvalidState):
			h.logger.Warn("PUT /bookings/{id} - Invalid state: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, amendBooking.ErrSlotNotAvailable):
			h.logger.Warn("PUT /bookings/{id} - Slot not available: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, amendBooking.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, amendBooking.ErrInvalidDuration):
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, amendBooking.ErrOutsideHorizon):
			handlers.RespondBadRequest(w, msgOutsideHorizon)

		case errors.Is(err, amendBooking.ErrTransferNotAllowed):
			h.logger.Warn("PUT /bookings/{id} - Transfer not allowed: booking_id=%d, user_id=%d", bookingID, actorUserID)
			handlers.RespondBadRequest(w, msgTransferNotAllowed)

		case errors.Is(err, amendBooking.ErrPaymentFailed):
			h.logger.Warn("PUT /bookings/{id} - Payment failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)

		case errors.Is(err, amendBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /bookings/{id} - Failed to amend booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking amended: booking_id=%d, payment_required=%t",
		bookingID, result.PaymentRequired)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
