package confirm_settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	holdRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/hold"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/paygateway"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
)

// UseCase use case фиксации платежной саги: списание у шлюза и превращение
// hold в подтвержденное бронирование (или применение отложенного изменения)
//
// Сага повторновходима: уже зафиксированный order id возвращает своё
// бронирование без побочных эффектов, неудачное списание оставляет hold
// активным на один повтор
type UseCase struct {
	bookingRepo           BookingRepository
	holdRepo              HoldRepository
	engine                AvailabilityEngine
	gateway               PaymentGateway
	cache                 CalendarCache
	txManager             TransactionManager
	settlementsCommitted  Counter
	settlementsRolledBack Counter
	timeProvider          TimeProvider
	logger                Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	engine AvailabilityEngine,
	gateway PaymentGateway,
	cache CalendarCache,
	txManager TransactionManager,
	settlementsCommitted Counter,
	settlementsRolledBack Counter,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:           bookingRepo,
		holdRepo:              holdRepo,
		engine:                engine,
		gateway:               gateway,
		cache:                 cache,
		txManager:             txManager,
		settlementsCommitted:  settlementsCommitted,
		settlementsRolledBack: settlementsRolledBack,
		timeProvider:          &RealTimeProvider{},
		logger:                logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case фиксации платежной саги
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmSettlement: order=%s, user=%d, amount=%d", req.OrderID, req.ActorUserID, req.Amount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmSettlement: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var hold *domain.TemporaryHold
	var replayed *Response

	// 2. Проверяем сагу и переводим её в settling под блокировкой записи
	// Сверка суммы с зафиксированной ценой обязана случиться до списания;
	// расхождение фатально, hold остается как есть до истечения TTL
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		h, err := uc.holdRepo.GetByOrderID(txCtx, req.OrderID)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				return ErrHoldNotFound
			}
			return fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
		}

		if h.HolderUserID != req.ActorUserID {
			uc.logger.Warn("ConfirmSettlement: user=%d does not own order=%s", req.ActorUserID, req.OrderID)
			return ErrAccessDenied
		}

		switch h.State {
		case domain.HoldCommitted:
			// Повторное подтверждение - возвращаем уже созданное бронирование
			resp, err := uc.committedResponse(txCtx, h)
			if err != nil {
				return err
			}
			replayed = resp
			return nil
		case domain.HoldRolledBack:
			return fmt.Errorf("%w: hold is rolled back", ErrInvalidState)
		case domain.HoldHolding:
			return fmt.Errorf("%w: payment was never authorized", ErrInvalidState)
		}

		if h.IsExpired(now) {
			return ErrHoldExpired
		}

		if req.Amount != h.QuotedPrice {
			uc.logger.Warn("ConfirmSettlement: amount mismatch for order=%s: got %d, quoted %d",
				req.OrderID, req.Amount, h.QuotedPrice)
			return ErrAmountMismatch
		}

		if err := uc.holdRepo.UpdateState(txCtx, h.ID, domain.HoldSettling); err != nil {
			return fmt.Errorf("%w: failed to advance hold state: %v", ErrInternal, err)
		}

		hold = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		uc.logger.Info("ConfirmSettlement: order=%s already committed to booking id=%d",
			req.OrderID, replayed.Booking.ID)
		return replayed, nil
	}

	// 3. Списание у шлюза - вне транзакции, под таймаутом httpClient
	capture, err := uc.gateway.Capture(ctx, req.OrderID, req.PaymentKey, req.Amount)
	if err != nil {
		return nil, uc.handleCaptureFailure(ctx, hold, err)
	}

	// 4. Фиксация: hold превращается в подтвержденное бронирование (или
	// применяет отложенное изменение) в одной сериализуемой транзакции
	var result *Response
	var voidOrder bool

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		h, err := uc.holdRepo.GetByOrderID(txCtx, req.OrderID)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				// Сборщик успел вычистить истекший hold между проверкой
				// и списанием - возвращаем деньги
				voidOrder = true
				return ErrHoldExpired
			}
			return fmt.Errorf("%w: failed to refetch hold: %v", ErrInternal, err)
		}

		if h.State == domain.HoldCommitted {
			resp, err := uc.committedResponse(txCtx, h)
			if err != nil {
				return err
			}
			result = resp
			return nil
		}

		// Повторная проверка слота с исключением самой саги; hold блокировал
		// интервал всё это время, конфликт означает потерю записи
		exclude := availability.Exclusions{HoldID: &h.ID, BookingID: h.AmendsBookingID}
		if err := uc.engine.ValidateSlot(txCtx, h.UnitID, h.StartTime, h.DurationHours, exclude); err != nil {
			uc.logger.Error("ConfirmSettlement: slot lost for order=%s: %v", req.OrderID, err)
			if stateErr := uc.holdRepo.UpdateState(txCtx, h.ID, domain.HoldRolledBack); stateErr != nil {
				return fmt.Errorf("%w: failed to roll back hold: %v", ErrInternal, stateErr)
			}
			voidOrder = true
			return ErrSlotNotAvailable
		}

		booking, err := uc.applyHold(txCtx, h, now)
		if err != nil {
			return err
		}

		payment, err := uc.bookingRepo.CreateOnlinePayment(txCtx, &domain.OnlinePaymentTransaction{
			BookingID:   booking.ID,
			OrderID:     h.OrderID,
			PaymentKey:  capture.PaymentKey,
			Price:       h.QuotedPrice,
			ConfirmedAt: now,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create online payment: %v", ErrInternal, err)
		}

		if err := uc.holdRepo.MarkCommitted(txCtx, h.ID, booking.ID); err != nil {
			return fmt.Errorf("%w: failed to mark hold committed: %v", ErrInternal, err)
		}

		result = &Response{Booking: booking, Payment: payment}
		return nil
	})

	if voidOrder {
		// Списание уже прошло - снимаем платеж у шлюза, лучшее из возможного
		if voidErr := uc.gateway.Void(ctx, req.OrderID); voidErr != nil {
			uc.logger.Error("ConfirmSettlement: failed to void order=%s: %v", req.OrderID, voidErr)
		}
		uc.settlementsRolledBack.Inc()
		uc.cache.Invalidate(ctx, hold.UnitID)
	}
	if err != nil {
		return nil, err
	}

	if !result.AlreadyCommitted {
		uc.settlementsCommitted.Inc()
	}
	uc.cache.Invalidate(ctx, result.Booking.UnitID)

	uc.logger.Info("ConfirmSettlement: order=%s committed to booking id=%d", req.OrderID, result.Booking.ID)
	return result, nil
}

// Preview возвращает удерживаемый слот и сумму к оплате после возврата
// пользователя от шлюза; денежных движений не производит
func (uc *UseCase) Preview(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	hold, err := uc.holdRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			return nil, ErrHoldNotFound
		}
		return nil, fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
	}

	if hold.HolderUserID != req.ActorUserID {
		return nil, ErrAccessDenied
	}

	if hold.State == domain.HoldRolledBack {
		return nil, fmt.Errorf("%w: hold is rolled back", ErrInvalidState)
	}

	if hold.State != domain.HoldCommitted && hold.IsExpired(uc.timeProvider.Now()) {
		return nil, ErrHoldExpired
	}

	return &PreviewResponse{
		OrderID:       hold.OrderID,
		UnitID:        hold.UnitID,
		StartTime:     hold.StartTime,
		DurationHours: hold.DurationHours,
		QuotedPrice:   hold.QuotedPrice,
		ExpiresAt:     hold.ExpiresAt,
	}, nil
}

// applyHold превращает hold в бронирование: создает подтвержденное новое
// либо применяет отложенное изменение существующего
func (uc *UseCase) applyHold(ctx context.Context, h *domain.TemporaryHold, now time.Time) (*domain.Booking, error) {
	if !h.IsAmendment() {
		booking, err := uc.bookingRepo.Create(ctx, &domain.Booking{
			UnitID:        h.UnitID,
			HolderUserID:  h.HolderUserID,
			HolderName:    h.HolderName,
			Customer:      h.Customer,
			StartTime:     h.StartTime,
			DurationHours: h.DurationHours,
			Status:        domain.StatusConfirmed,
			ConfirmedAt:   &now,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		return booking, nil
	}

	booking, err := uc.bookingRepo.GetByID(ctx, *h.AmendsBookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get amended booking: %v", ErrInternal, err)
	}

	if err := uc.bookingRepo.UpdateSchedule(ctx, booking.ID, h.StartTime, h.DurationHours); err != nil {
		return nil, fmt.Errorf("%w: failed to apply amendment: %v", ErrInternal, err)
	}

	booking.StartTime = h.StartTime
	booking.DurationHours = h.DurationHours
	return booking, nil
}

// committedResponse собирает ответ по уже зафиксированной саге
func (uc *UseCase) committedResponse(ctx context.Context, h *domain.TemporaryHold) (*Response, error) {
	if h.CommittedBookingID == nil {
		return nil, fmt.Errorf("%w: committed hold id=%s has no booking", ErrInternal, h.ID)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, *h.CommittedBookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get committed booking: %v", ErrInternal, err)
	}

	return &Response{Booking: booking, AlreadyCommitted: true}, nil
}

// handleCaptureFailure обрабатывает отказ списания: один повтор разрешен,
// после второго отказа сага откатывается
func (uc *UseCase) handleCaptureFailure(ctx context.Context, hold *domain.TemporaryHold, err error) error {
	declined, isDeclined := paygateway.AsDeclined(err)
	if !isDeclined {
		// Сетевой сбой - возвращаем сагу в ожидание, попытку не тратим
		if stateErr := uc.holdRepo.UpdateState(ctx, hold.ID, domain.HoldAwaitingGateway); stateErr != nil {
			uc.logger.Error("ConfirmSettlement: failed to restore hold id=%s: %v", hold.ID, stateErr)
		}
		uc.logger.Error("ConfirmSettlement: capture failed for order=%s: %v", hold.OrderID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Warn("ConfirmSettlement: capture declined for order=%s: %s", hold.OrderID, declined.Message)

	if incErr := uc.holdRepo.IncrementCaptureAttempts(ctx, hold.ID); incErr != nil {
		uc.logger.Error("ConfirmSettlement: failed to count capture attempt for hold id=%s: %v", hold.ID, incErr)
	}

	if hold.CaptureAttempts+1 >= domain.MaxCaptureAttempts {
		// Попытки исчерпаны - сага откатывается, слот освобождается
		if stateErr := uc.holdRepo.UpdateState(ctx, hold.ID, domain.HoldRolledBack); stateErr != nil {
			uc.logger.Error("ConfirmSettlement: failed to roll back hold id=%s: %v", hold.ID, stateErr)
		}
		uc.settlementsRolledBack.Inc()
		uc.cache.Invalidate(ctx, hold.UnitID)
		return fmt.Errorf("%w: %s (no retries left)", ErrPaymentFailed, declined.Message)
	}

	// Сага остается активной на один повтор
	if stateErr := uc.holdRepo.UpdateState(ctx, hold.ID, domain.HoldAwaitingGateway); stateErr != nil {
		uc.logger.Error("ConfirmSettlement: failed to restore hold id=%s: %v", hold.ID, stateErr)
	}
	return fmt.Errorf("%w: %s", ErrPaymentFailed, declined.Message)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ActorUserID <= 0 {
		return fmt.Errorf("%w: actorUserID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.OrderID) == "" {
		return fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PaymentKey) == "" {
		return fmt.Errorf("%w: paymentKey is required", ErrInvalidInput)
	}

	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	return nil
}
