package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	bookingRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/booking"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// UseCase use case отмены бронирования
// Правило дня: счет для возврата обязателен ровно тогда, когда день начала
// подтвержденной оплаченной брони отличается от сегодняшнего в бизнесовой
// таймзоне; отмена день в день возврата не порождает
type UseCase struct {
	bookingRepo  BookingRepository
	cache        CalendarCache
	txManager    TransactionManager
	businessLoc  *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	cache CalendarCache,
	txManager TransactionManager,
	businessLoc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		cache:        cache,
		txManager:    txManager,
		businessLoc:  businessLoc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking id=%d by user=%d (staff=%t)", req.BookingID, req.ActorUserID, req.Staff)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.ActorUserID <= 0 {
		return nil, fmt.Errorf("%w: actorUserID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	var result *Response

	// 2. Проверки и отмена в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.HolderUserID != req.ActorUserID && !req.Staff {
			uc.logger.Warn("CancelBooking: user=%d is not the holder of booking id=%d", req.ActorUserID, booking.ID)
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d is %s", booking.ID, booking.Status)
			return fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
		}

		cash, err := uc.bookingRepo.GetCashPaymentByBookingID(txCtx, booking.ID)
		if err != nil && !errors.Is(err, bookingRepo.ErrPaymentNotFound) {
			return fmt.Errorf("%w: failed to get cash payment: %v", ErrInternal, err)
		}

		// Возврат положен только по подтвержденной оплаченной брони,
		// отменяемой не в день её начала
		sameDay := timeslot.SameDay(now, booking.StartTime, uc.businessLoc)
		refundDue := booking.Status == domain.StatusConfirmed && cash != nil && !sameDay

		if refundDue && (req.RefundAccount == nil || strings.TrimSpace(*req.RefundAccount) == "") {
			uc.logger.Warn("CancelBooking: refund account required for booking id=%d", booking.ID)
			return ErrRefundAccountRequired
		}

		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, now); err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		if refundDue {
			if err := uc.bookingRepo.RequestCashRefund(txCtx, booking.ID, req.RefundAccount, cash.Price); err != nil {
				return fmt.Errorf("%w: failed to request refund: %v", ErrInternal, err)
			}
			cash.RefundRequested = true
			cash.RefundAccount = req.RefundAccount
			cash.RefundPrice = &cash.Price
		}

		booking.Status = domain.StatusCanceled
		booking.CanceledAt = &now

		result = &Response{Booking: booking}
		if refundDue {
			result.CashPayment = cash
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, result.Booking.UnitID)

	uc.logger.Info("CancelBooking: booking id=%d canceled, refund requested=%t",
		result.Booking.ID, result.CashPayment != nil)
	return result, nil
}
