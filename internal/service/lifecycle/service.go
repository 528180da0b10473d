package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	bookingRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/booking"
)

// Service административные операции жизненного цикла бронирования:
// подтверждение наличной оплаты и обработка возвратов
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса жизненного цикла
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ConfirmCash подтверждает наличную оплату бронирования
// Только персонал; бронирование должно быть в pending
func (s *Service) ConfirmCash(ctx context.Context, bookingID int64, actor Actor) (*domain.Booking, error) {
	s.logger.Info("ConfirmCash: booking id=%d by user=%d", bookingID, actor.UserID)

	if !actor.Staff {
		s.logger.Warn("ConfirmCash: access denied for user=%d", actor.UserID)
		return nil, ErrAccessDenied
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusPending {
		s.logger.Warn("ConfirmCash: booking id=%d is %s, expected pending", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}

	now := s.timeProvider.Now()

	if err := s.bookingRepo.Confirm(ctx, bookingID, now); err != nil {
		s.logger.Error("ConfirmCash: failed to confirm booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ConfirmCash - confirm booking: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.ConfirmCashPayment(ctx, bookingID, now); err != nil {
		// Бронирование без платежной записи - подтверждаем только статус
		if !errors.Is(err, bookingRepo.ErrPaymentNotFound) {
			s.logger.Error("ConfirmCash: failed to confirm payment for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: ConfirmCash - confirm payment: %v", ErrInternal, err)
		}
	}

	booking.Status = domain.StatusConfirmed
	booking.ConfirmedAt = &now

	s.logger.Info("ConfirmCash: booking id=%d confirmed", bookingID)
	return booking, nil
}

// Refund обрабатывает возврат по бронированию
// Только персонал; требуется ожидающий запрос возврата; статус бронирования
// на обработку возврата не влияет
func (s *Service) Refund(ctx context.Context, bookingID int64, actor Actor) (*domain.CashPaymentStatus, error) {
	s.logger.Info("Refund: booking id=%d by user=%d", bookingID, actor.UserID)

	if !actor.Staff {
		s.logger.Warn("Refund: access denied for user=%d", actor.UserID)
		return nil, ErrAccessDenied
	}

	if _, err := s.getBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	// Сначала наличный платеж
	cash, err := s.bookingRepo.GetCashPaymentByBookingID(ctx, bookingID)
	if err == nil {
		if !cash.HasPendingRefund() {
			s.logger.Warn("Refund: booking id=%d has no pending cash refund", bookingID)
			return nil, ErrNoRefundPending
		}
		if err := s.bookingRepo.MarkCashRefunded(ctx, bookingID, now); err != nil {
			s.logger.Error("Refund: failed to mark cash refund for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: Refund - mark cash refunded: %v", ErrInternal, err)
		}
		cash.Refunded = true
		cash.RefundedAt = &now
		s.logger.Info("Refund: cash refund processed for booking id=%d", bookingID)
		return cash, nil
	}
	if !errors.Is(err, bookingRepo.ErrPaymentNotFound) {
		s.logger.Error("Refund: failed to get cash payment for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Refund - get cash payment: %v", ErrInternal, err)
	}

	// Затем онлайн транзакция
	online, err := s.bookingRepo.GetOnlinePaymentByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrPaymentNotFound) {
			s.logger.Warn("Refund: booking id=%d has no payment record", bookingID)
			return nil, ErrNoRefundPending
		}
		s.logger.Error("Refund: failed to get online payment for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Refund - get online payment: %v", ErrInternal, err)
	}

	if online.Refunded {
		s.logger.Warn("Refund: online payment for booking id=%d already refunded", bookingID)
		return nil, ErrNoRefundPending
	}

	if err := s.bookingRepo.MarkOnlineRefunded(ctx, bookingID, online.Price, now); err != nil {
		s.logger.Error("Refund: failed to mark online refund for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Refund - mark online refunded: %v", ErrInternal, err)
	}

	s.logger.Info("Refund: online refund processed for booking id=%d", bookingID)
	return nil, nil
}

func (s *Service) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: get booking: %v", ErrInternal, err)
	}
	return booking, nil
}
