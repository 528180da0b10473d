package amend_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	bookingRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/booking"
	holdRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/hold"
	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/identitysvc"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/paygateway"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// UseCase use case изменения бронирования
//
// Перенос начала бесплатен и применяется сразу; дополнительные часы требуют
// доплаты - бронь не трогается, вместо этого стартует платежная сага, и
// изменение применится только при её фиксации. Отдельная ветка передает
// заказчика от пользователя группе, строго в одну сторону
type UseCase struct {
	bookingRepo  BookingRepository
	holdRepo     HoldRepository
	unitRepo     UnitRepository
	engine       AvailabilityEngine
	pricer       Pricer
	identity     IdentityClient
	gateway      PaymentGateway
	cache        CalendarCache
	txManager    TransactionManager
	holdTTL      time.Duration
	holdsCreated Counter
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	unitRepo UnitRepository,
	engine AvailabilityEngine,
	pricer Pricer,
	identity IdentityClient,
	gateway PaymentGateway,
	cache CalendarCache,
	txManager TransactionManager,
	holdTTL time.Duration,
	holdsCreated Counter,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		holdRepo:     holdRepo,
		unitRepo:     unitRepo,
		engine:       engine,
		pricer:       pricer,
		identity:     identity,
		gateway:      gateway,
		cache:        cache,
		txManager:    txManager,
		holdTTL:      holdTTL,
		holdsCreated: holdsCreated,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case изменения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AmendBooking: booking id=%d by user=%d", req.BookingID, req.ActorUserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AmendBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование и проверяем права инициатора
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.HolderUserID != req.ActorUserID && !req.Staff {
		uc.logger.Warn("AmendBooking: user=%d is not the holder of booking id=%d", req.ActorUserID, booking.ID)
		return nil, ErrAccessDenied
	}

	if req.TransferToGroupID != nil {
		return uc.executeTransfer(ctx, req, booking)
	}
	return uc.executeSchedule(ctx, req, booking)
}

// executeTransfer передает заказчика бронирования группе
// Передача односторонняя: от группы обратно пользователю пути нет
func (uc *UseCase) executeTransfer(ctx context.Context, req *Request, booking *domain.Booking) (*Response, error) {
	if booking.HolderUserID != req.ActorUserID {
		// Даже персонал не передает чужую бронь - только сам держатель
		uc.logger.Warn("AmendBooking: transfer of booking id=%d requires the holder", booking.ID)
		return nil, ErrAccessDenied
	}

	if !booking.Customer.IsIndividual() {
		uc.logger.Warn("AmendBooking: booking id=%d customer is already a group", booking.ID)
		return nil, fmt.Errorf("%w: customer is already a group", ErrTransferNotAllowed)
	}

	now := uc.timeProvider.Now()
	switch booking.EffectiveStatus(now) {
	case domain.DerivedCanceled, domain.DerivedOverdue, domain.DerivedComplete:
		uc.logger.Warn("AmendBooking: booking id=%d is %s, transfer denied", booking.ID, booking.EffectiveStatus(now))
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.EffectiveStatus(now))
	}

	group, err := uc.identity.GetGroup(ctx, *req.TransferToGroupID)
	if err != nil {
		if errors.Is(err, identitysvc.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
	}

	if !group.Open && !group.HasMember(req.ActorUserID) {
		uc.logger.Warn("AmendBooking: user=%d cannot transfer to closed group id=%d", req.ActorUserID, group.ID)
		return nil, fmt.Errorf("%w: group is closed to non-members", ErrTransferNotAllowed)
	}

	customer := domain.IdentityRef{Kind: domain.IdentityGroup, ID: *req.TransferToGroupID}
	if err := uc.bookingRepo.TransferCustomer(ctx, booking.ID, customer); err != nil {
		return nil, fmt.Errorf("%w: failed to transfer customer: %v", ErrInternal, err)
	}

	booking.Customer = customer

	uc.logger.Info("AmendBooking: booking id=%d transferred to group id=%d", booking.ID, *req.TransferToGroupID)
	return &Response{Booking: booking}, nil
}

// executeSchedule изменяет расписание бронирования
func (uc *UseCase) executeSchedule(ctx context.Context, req *Request, booking *domain.Booking) (*Response, error) {
	now := uc.timeProvider.Now()

	if !booking.CanBeAmended(now) {
		uc.logger.Warn("AmendBooking: booking id=%d cannot be amended (%s)", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.EffectiveStatus(now))
	}

	unit, err := uc.unitRepo.GetByID(ctx, booking.UnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("%w: failed to get unit: %v", ErrInternal, err)
	}

	newStart := booking.StartTime
	if req.NewStart != nil {
		newStart = timeslot.TruncateHour(req.NewStart.UTC())
	}
	newDuration := booking.DurationHours + req.AdditionalHours

	price, err := uc.pricer.IncrementalQuote(unit, req.AdditionalHours)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if price == 0 {
		return uc.applyFree(ctx, booking, newStart, newDuration)
	}
	return uc.beginPaidAmendment(ctx, req, booking, newStart, newDuration, price, now)
}

// applyFree применяет бесплатное изменение сразу, в одной сериализуемой
// транзакции с проверкой пересечений
func (uc *UseCase) applyFree(ctx context.Context, booking *domain.Booking, newStart time.Time, newDuration int) (*Response, error) {
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		exclude := availability.Exclusions{BookingID: &booking.ID}
		if err := uc.engine.ValidateSlot(txCtx, booking.UnitID, newStart, newDuration, exclude); err != nil {
			return mapAvailabilityError(err)
		}

		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, newStart, newDuration); err != nil {
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.StartTime = newStart
	booking.DurationHours = newDuration

	uc.cache.Invalidate(ctx, booking.UnitID)

	uc.logger.Info("AmendBooking: booking id=%d rescheduled to %s x%dh",
		booking.ID, newStart.Format(time.RFC3339), newDuration)
	return &Response{Booking: booking}, nil
}

// beginPaidAmendment стартует платежную сагу доплаты: hold резервирует весь
// будущий интервал брони, само бронирование не трогается до фиксации
func (uc *UseCase) beginPaidAmendment(
	ctx context.Context,
	req *Request,
	booking *domain.Booking,
	newStart time.Time,
	newDuration int,
	price int64,
	now time.Time,
) (*Response, error) {
	hold := &domain.TemporaryHold{
		ID:              uuid.NewString(),
		OrderID:         uuid.NewString(),
		UnitID:          booking.UnitID,
		HolderUserID:    booking.HolderUserID,
		HolderName:      booking.HolderName,
		Customer:        booking.Customer,
		StartTime:       newStart,
		DurationHours:   newDuration,
		QuotedPrice:     price,
		State:           domain.HoldHolding,
		AmendsBookingID: &booking.ID,
		ExpiresAt:       now.Add(uc.holdTTL),
	}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if req.ExistingHoldID != nil {
			if err := uc.replaceExisting(txCtx, *req.ExistingHoldID, req.ActorUserID); err != nil {
				return err
			}
		}

		exclude := availability.Exclusions{BookingID: &booking.ID, HoldID: req.ExistingHoldID}
		if err := uc.engine.ValidateSlot(txCtx, booking.UnitID, newStart, newDuration, exclude); err != nil {
			return mapAvailabilityError(err)
		}

		if _, err := uc.holdRepo.Create(txCtx, hold); err != nil {
			return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, booking.UnitID)

	// Авторизация доплаты у шлюза - вне транзакции
	auth, err := uc.gateway.Authorize(ctx, hold.OrderID, price, fmt.Sprintf("user-%d", booking.HolderUserID))
	if err != nil {
		if rbErr := uc.holdRepo.UpdateState(ctx, hold.ID, domain.HoldRolledBack); rbErr != nil {
			uc.logger.Error("AmendBooking: failed to roll back hold id=%s: %v", hold.ID, rbErr)
		}
		uc.cache.Invalidate(ctx, booking.UnitID)

		if declined, ok := paygateway.AsDeclined(err); ok {
			uc.logger.Warn("AmendBooking: authorization declined for order=%s: %s", hold.OrderID, declined.Message)
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, declined.Message)
		}
		return nil, fmt.Errorf("%w: authorization failed: %v", ErrInternal, err)
	}

	if err := uc.holdRepo.UpdateState(ctx, hold.ID, domain.HoldAwaitingGateway); err != nil {
		return nil, fmt.Errorf("%w: failed to advance hold state: %v", ErrInternal, err)
	}

	uc.holdsCreated.Inc()

	uc.logger.Info("AmendBooking: booking id=%d awaits payment, order=%s, price=%d",
		booking.ID, hold.OrderID, price)
	return &Response{
		Booking:          booking,
		IncrementalPrice: price,
		PaymentRequired:  true,
		HoldID:           hold.ID,
		OrderID:          hold.OrderID,
		RedirectURL:      auth.RedirectURL,
		ExpiresAt:        hold.ExpiresAt,
	}, nil
}

// replaceExisting удаляет заменяемый hold после проверки владения
func (uc *UseCase) replaceExisting(ctx context.Context, holdID string, actorUserID int64) error {
	existing, err := uc.holdRepo.GetByID(ctx, holdID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			return nil
		}
		return fmt.Errorf("%w: failed to get existing hold: %v", ErrInternal, err)
	}

	if existing.HolderUserID != actorUserID {
		return ErrAccessDenied
	}

	if existing.State == domain.HoldCommitted || existing.State == domain.HoldSettling {
		return fmt.Errorf("%w: hold is %s", ErrInvalidState, existing.State)
	}

	if err := uc.holdRepo.Delete(ctx, holdID); err != nil {
		return fmt.Errorf("%w: failed to delete existing hold: %v", ErrInternal, err)
	}
	return nil
}

// validateRequest валидирует входные данные запроса
// Передача заказчика и изменение расписания не смешиваются в одном запросе
func validateRequest(req *Request) error {
	if req.ActorUserID <= 0 {
		return fmt.Errorf("%w: actorUserID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.AdditionalHours < 0 {
		return fmt.Errorf("%w: additionalHours must not be negative", ErrInvalidInput)
	}

	hasSchedule := req.NewStart != nil || req.AdditionalHours > 0
	hasTransfer := req.TransferToGroupID != nil

	if hasTransfer && hasSchedule {
		return fmt.Errorf("%w: identity transfer and schedule change are separate amendments", ErrInvalidInput)
	}
	if !hasTransfer && !hasSchedule {
		return fmt.Errorf("%w: nothing to amend", ErrInvalidInput)
	}

	if hasTransfer && *req.TransferToGroupID <= 0 {
		return fmt.Errorf("%w: transferToGroupID must be positive", ErrInvalidInput)
	}

	return nil
}

// mapAvailabilityError переводит ошибки движка доступности в ошибки usecase
func mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, availability.ErrSlotNotAvailable):
		return ErrSlotNotAvailable
	case errors.Is(err, availability.ErrSlotInPast):
		return ErrSlotInPast
	case errors.Is(err, availability.ErrInvalidDuration):
		return ErrInvalidDuration
	case errors.Is(err, availability.ErrOutsideHorizon):
		return ErrOutsideHorizon
	case errors.Is(err, availability.ErrUnitNotFound):
		return ErrUnitNotFound
	case errors.Is(err, availability.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
