package get_calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// UseCase use case чтения календаря занятых слотов юнита
// Чтение несинхронизированное: снапшот может отставать, авторитетна всегда
// повторная проверка на коммите записи
type UseCase struct {
	unitRepo UnitRepository
	engine   AvailabilityEngine
	cache    CalendarCache
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(unitRepo UnitRepository, engine AvailabilityEngine, cache CalendarCache, logger Logger) *UseCase {
	return &UseCase{
		unitRepo: unitRepo,
		engine:   engine,
		cache:    cache,
		logger:   logger,
	}
}

// Execute выполняет use case чтения календаря
// Кэшируется только анонимная проекция: маскировка имен зависит от читателя,
// и ответы авторизованных пользователей класть в общий кэш нельзя
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.UnitID == "" {
		return nil, fmt.Errorf("%w: unitID is required", ErrInvalidInput)
	}

	anonymous := req.Viewer.UserID == 0 && !req.Viewer.Staff

	if anonymous {
		if payload, ok := uc.cache.Get(ctx, req.UnitID); ok {
			var cached Response
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
			uc.logger.Warn("GetCalendar: failed to decode cached payload for unit=%s, falling through", req.UnitID)
		}
	}

	unit, err := uc.unitRepo.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			uc.logger.Warn("GetCalendar: unit %s not found", req.UnitID)
			return nil, ErrUnitNotFound
		}
		uc.logger.Error("GetCalendar: failed to get unit %s: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: failed to get unit: %v", ErrInternal, err)
	}
	if !unit.Active {
		return nil, ErrUnitNotFound
	}

	window := timeslot.Window{Start: unit.HorizonStart, End: unit.HorizonEnd}

	slots, err := uc.engine.GetOccupiedSlots(ctx, req.UnitID, window, req.Viewer)
	if err != nil {
		uc.logger.Error("GetCalendar: failed to get occupied slots for unit=%s: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: failed to get occupied slots: %v", ErrInternal, err)
	}

	resp := &Response{
		Start:           unit.HorizonStart,
		End:             unit.HorizonEnd,
		MaxBookingHours: unit.MaxBookingHours,
		Slots:           slots,
	}

	if anonymous {
		if payload, err := json.Marshal(resp); err == nil {
			uc.cache.Set(ctx, req.UnitID, payload)
		}
	}

	return resp, nil
}
