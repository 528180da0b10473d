package begin_hold

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	holdRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/hold"
	unitRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/unit"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/paygateway"
	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	identityResolver "github.com/soundroom/SRS-BookingEngine/internal/service/identity"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// UseCase use case старта платежной саги: hold на слот + авторизация у шлюза
//
// Hold вставляется в сериализуемой транзакции и с этого момента занимает слот
// наравне с бронированиями; авторизация у шлюза выполняется уже вне
// транзакции, чтобы сетевой round trip не держал блокировки юнита
type UseCase struct {
	holdRepo     HoldRepository
	unitRepo     UnitRepository
	engine       AvailabilityEngine
	pricer       Pricer
	resolver     IdentityResolver
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
	holdRepo HoldRepository,
	unitRepo UnitRepository,
	engine AvailabilityEngine,
	pricer Pricer,
	resolver IdentityResolver,
	gateway PaymentGateway,
	cache CalendarCache,
	txManager TransactionManager,
	holdTTL time.Duration,
	holdsCreated Counter,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:     holdRepo,
		unitRepo:     unitRepo,
		engine:       engine,
		pricer:       pricer,
		resolver:     resolver,
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

// Execute выполняет use case старта платежной саги
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BeginHold: user=%d, unit=%s, from=%s, hours=%d",
		req.ActorUserID, req.UnitID, req.TimeFrom.Format(time.RFC3339), req.DesiredHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BeginHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Резолвим заказчика (внешний вызов, вне транзакции)
	resolution, err := uc.resolver.Resolve(ctx, req.ActorUserID, req.Customer)
	if err != nil {
		uc.logger.Warn("BeginHold: identity resolution failed: %v", err)
		return nil, mapIdentityError(err)
	}

	// 3. Получаем юнит и фиксируем авторитетную цену саги
	unit, err := uc.unitRepo.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, unitRepo.ErrUnitNotFound) {
			uc.logger.Warn("BeginHold: unit %s not found", req.UnitID)
			return nil, ErrUnitNotFound
		}
		uc.logger.Error("BeginHold: failed to get unit %s: %v", req.UnitID, err)
		return nil, fmt.Errorf("%w: failed to get unit: %v", ErrInternal, err)
	}

	price, err := uc.pricer.Quote(unit, req.DesiredHours)
	if err != nil {
		uc.logger.Warn("BeginHold: quote failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := uc.timeProvider.Now()
	start := timeslot.TruncateHour(req.TimeFrom.UTC())

	hold := &domain.TemporaryHold{
		ID:            uuid.NewString(),
		OrderID:       uuid.NewString(),
		UnitID:        req.UnitID,
		HolderUserID:  req.ActorUserID,
		HolderName:    resolution.HolderName,
		Customer:      resolution.Customer,
		StartTime:     start,
		DurationHours: req.DesiredHours,
		QuotedPrice:   price,
		State:         domain.HoldHolding,
		ExpiresAt:     now.Add(uc.holdTTL),
	}

	// 4. Замена прежнего hold, проверка пересечений и вставка - одна
	// сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if req.ExistingHoldID != nil {
			if err := uc.replaceExisting(txCtx, *req.ExistingHoldID, req.ActorUserID); err != nil {
				return err
			}
		}

		exclude := availability.Exclusions{HoldID: req.ExistingHoldID}
		if err := uc.engine.ValidateSlot(txCtx, req.UnitID, start, req.DesiredHours, exclude); err != nil {
			return mapAvailabilityError(err)
		}

		if _, err := uc.holdRepo.Create(txCtx, hold); err != nil {
			uc.logger.Error("BeginHold: failed to create hold: %v", err)
			return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, req.UnitID)

	// 5. Авторизация у шлюза - слот уже занят hold'ом, блокировок нет
	auth, err := uc.gateway.Authorize(ctx, hold.OrderID, price, customerKey(req.ActorUserID))
	if err != nil {
		// Сага не стартовала: отпускаем слот, иначе он висит до истечения TTL
		if rbErr := uc.holdRepo.UpdateState(ctx, hold.ID, domain.HoldRolledBack); rbErr != nil {
			uc.logger.Error("BeginHold: failed to roll back hold id=%s: %v", hold.ID, rbErr)
		}
		uc.cache.Invalidate(ctx, req.UnitID)

		if declined, ok := paygateway.AsDeclined(err); ok {
			uc.logger.Warn("BeginHold: authorization declined for order=%s: %s", hold.OrderID, declined.Message)
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, declined.Message)
		}
		uc.logger.Error("BeginHold: authorization failed for order=%s: %v", hold.OrderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := uc.holdRepo.UpdateState(ctx, hold.ID, domain.HoldAwaitingGateway); err != nil {
		uc.logger.Error("BeginHold: failed to advance hold id=%s: %v", hold.ID, err)
		return nil, fmt.Errorf("%w: failed to advance hold state: %v", ErrInternal, err)
	}

	uc.holdsCreated.Inc()

	uc.logger.Info("BeginHold: hold id=%s created, order=%s, price=%d, expires=%s",
		hold.ID, hold.OrderID, price, hold.ExpiresAt.Format(time.RFC3339))
	return &Response{
		HoldID:      hold.ID,
		OrderID:     hold.OrderID,
		QuotedPrice: price,
		RedirectURL: auth.RedirectURL,
		ExpiresAt:   hold.ExpiresAt,
	}, nil
}

// replaceExisting удаляет заменяемый hold после проверки владения
// Повторный вход в сагу заменяет hold, а не плодит дубликаты
func (uc *UseCase) replaceExisting(ctx context.Context, holdID string, actorUserID int64) error {
	existing, err := uc.holdRepo.GetByID(ctx, holdID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			// Прежний hold уже истек и вычищен - это не ошибка
			return nil
		}
		return fmt.Errorf("%w: failed to get existing hold: %v", ErrInternal, err)
	}

	if existing.HolderUserID != actorUserID {
		uc.logger.Warn("BeginHold: user=%d does not own hold id=%s", actorUserID, holdID)
		return ErrAccessDenied
	}

	if existing.State == domain.HoldCommitted || existing.State == domain.HoldSettling {
		uc.logger.Warn("BeginHold: hold id=%s is %s, cannot replace", holdID, existing.State)
		return fmt.Errorf("%w: hold is %s", ErrInvalidState, existing.State)
	}

	if err := uc.holdRepo.Delete(ctx, holdID); err != nil {
		return fmt.Errorf("%w: failed to delete existing hold: %v", ErrInternal, err)
	}
	return nil
}

func customerKey(userID int64) string {
	return fmt.Sprintf("user-%d", userID)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ActorUserID <= 0 {
		return fmt.Errorf("%w: actorUserID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.UnitID) == "" {
		return fmt.Errorf("%w: unitID is required", ErrInvalidInput)
	}

	if req.TimeFrom.IsZero() {
		return fmt.Errorf("%w: timeFrom is required", ErrInvalidInput)
	}

	if req.DesiredHours < 1 {
		return fmt.Errorf("%w: desiredHours must be at least 1", ErrInvalidInput)
	}

	if !req.Customer.Valid() {
		return fmt.Errorf("%w: customer identity is malformed", ErrInvalidInput)
	}

	if req.ExistingHoldID != nil && strings.TrimSpace(*req.ExistingHoldID) == "" {
		return fmt.Errorf("%w: existingHoldID must not be blank", ErrInvalidInput)
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

// mapIdentityError переводит ошибки резолвера заказчика в ошибки usecase
func mapIdentityError(err error) error {
	switch {
	case errors.Is(err, identityResolver.ErrUserNotFound),
		errors.Is(err, identityResolver.ErrGroupNotFound),
		errors.Is(err, identityResolver.ErrNotGroupMember),
		errors.Is(err, identityResolver.ErrInvalidIdentity):
		return fmt.Errorf("%w: %v", ErrIdentity, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
