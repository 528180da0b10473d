package check_price

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/booking"
	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// UseCase use case расчета стоимости и проверки доступности слота
// Проверка консультативная: выполняется без блокировок, итоговая валидация
// всегда повторяется в транзакции записи
type UseCase struct {
	bookingRepo BookingRepository
	unitRepo    UnitRepository
	engine      AvailabilityEngine
	pricer      Pricer
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	unitRepo UnitRepository,
	engine AvailabilityEngine,
	pricer Pricer,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		unitRepo:    unitRepo,
		engine:      engine,
		pricer:      pricer,
		logger:      logger,
	}
}

// Execute выполняет use case расчета стоимости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckPrice: unit=%s, from=%s, hours=%d",
		req.UnitID, req.TimeFrom.Format(time.RFC3339), req.DesiredHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckPrice: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем юнит для расчета стоимости
	unit, err := uc.unitRepo.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			uc.logger.Warn("CheckPrice: unit %s not found", req.UnitID)
			return nil, ErrUnitNotFound
		}
		uc.logger.Error("CheckPrice: failed to get unit %s: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: failed to get unit: %v", ErrInternal, err)
	}
	if !unit.Active {
		return nil, ErrUnitNotFound
	}

	start := timeslot.TruncateHour(req.TimeFrom.UTC())

	// 3. Проверка доступности с исключением собственного бронирования
	exclude := availability.Exclusions{BookingID: req.ExcludeBookingID}
	if err := uc.engine.ValidateSlot(ctx, req.UnitID, start, req.DesiredHours, exclude); err != nil {
		uc.logger.Warn("CheckPrice: slot validation failed: %v", err)
		return nil, mapAvailabilityError(err)
	}

	// 4. Новое бронирование - полная стоимость
	if req.ExcludeBookingID == nil {
		price, err := uc.pricer.Quote(unit, req.DesiredHours)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return &Response{TotalPrice: price}, nil
	}

	// 5. Изменение существующего - доплата и доступное продление
	booking, err := uc.bookingRepo.GetByID(ctx, *req.ExcludeBookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CheckPrice: booking id=%d not found", *req.ExcludeBookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CheckPrice: failed to get booking id=%d: %v", *req.ExcludeBookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	additional := req.DesiredHours - booking.DurationHours
	if req.AdditionalHours != nil {
		additional = *req.AdditionalHours
	}
	if additional < 0 {
		additional = 0
	}

	price, err := uc.pricer.IncrementalQuote(unit, additional)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	maxAdditional, err := uc.engine.AvailableExtensionHours(ctx, booking)
	if err != nil {
		uc.logger.Error("CheckPrice: failed to compute extension for booking id=%d: %v", booking.ID, err)
		return nil, mapAvailabilityError(err)
	}

	return &Response{TotalPrice: price, MaxAdditionalHours: &maxAdditional}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.UnitID) == "" {
		return fmt.Errorf("%w: unitID is required", ErrInvalidInput)
	}

	if req.TimeFrom.IsZero() {
		return fmt.Errorf("%w: timeFrom is required", ErrInvalidInput)
	}

	if req.DesiredHours < 1 {
		return fmt.Errorf("%w: desiredHours must be at least 1", ErrInvalidInput)
	}

	if req.AdditionalHours != nil && *req.AdditionalHours < 0 {
		return fmt.Errorf("%w: additionalHours must not be negative", ErrInvalidInput)
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
