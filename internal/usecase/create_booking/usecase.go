package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// UseCase use case создания бронирования с наличной оплатой
// Бронирование создается в pending и ждет подтверждения депозита персоналом
type UseCase struct {
	bookingRepo  BookingRepository
	unitRepo     UnitRepository
	engine       AvailabilityEngine
	pricer       Pricer
	resolver     IdentityResolver
	cache        CalendarCache
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	unitRepo UnitRepository,
	engine AvailabilityEngine,
	pricer Pricer,
	resolver IdentityResolver,
	cache CalendarCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		unitRepo:     unitRepo,
		engine:       engine,
		pricer:       pricer,
		resolver:     resolver,
		cache:        cache,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
// Проверка доступности и вставка идут в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, unit=%s, from=%s, hours=%d, customer=%s/%d",
		req.ActorUserID, req.UnitID, req.TimeFrom.Format(time.RFC3339), req.DesiredHours,
		req.Customer.Kind, req.Customer.ID)

	// 1. Валидация входных данных - до каких-либо блокировок
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Резолвим заказчика и держателя (внешний вызов, вне транзакции)
	resolution, err := uc.resolver.Resolve(ctx, req.ActorUserID, req.Customer)
	if err != nil {
		uc.logger.Warn("CreateBooking: identity resolution failed: %v", err)
		return nil, mapIdentityError(err)
	}

	// 3. Получаем юнит для расчета стоимости
	unit, err := uc.unitRepo.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			uc.logger.Warn("CreateBooking: unit %s not found", req.UnitID)
			return nil, ErrUnitNotFound
		}
		uc.logger.Error("CreateBooking: failed to get unit %s: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: failed to get unit: %v", ErrInternal, err)
	}

	price, err := uc.pricer.Quote(unit, req.DesiredHours)
	if err != nil {
		uc.logger.Warn("CreateBooking: quote failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	start := timeslot.TruncateHour(req.TimeFrom.UTC())

	var result *Response

	// 4. Проверка пересечений и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.engine.ValidateSlot(txCtx, req.UnitID, start, req.DesiredHours, availability.Exclusions{}); err != nil {
			return mapAvailabilityError(err)
		}

		booking := &domain.Booking{
			UnitID:        req.UnitID,
			HolderUserID:  req.ActorUserID,
			HolderName:    resolution.HolderName,
			Customer:      resolution.Customer,
			StartTime:     start,
			DurationHours: req.DesiredHours,
			Status:        domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		payment, err := uc.bookingRepo.CreateCashPayment(txCtx, &domain.CashPaymentStatus{
			BookingID:     created.ID,
			Price:         price,
			DepositorName: req.DepositorName,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create cash payment: %v", err)
			return fmt.Errorf("%w: failed to create cash payment: %v", ErrInternal, err)
		}

		result = &Response{Booking: created, CashPayment: payment}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, req.UnitID)

	uc.logger.Info("CreateBooking: successfully created booking id=%d, price=%d", result.Booking.ID, price)
	return result, nil
}
