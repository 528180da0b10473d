package cancel_settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	holdRepo "github.com/soundroom/SRS-BookingEngine/internal/infra/storage/hold"
)

// UseCase use case отката платежной саги: снятие авторизации и освобождение
// слота. Обслуживает и явную отмену пользователем, и обратный вызов шлюза
// о неуспехе оплаты
type UseCase struct {
	holdRepo              HoldRepository
	gateway               PaymentGateway
	cache                 CalendarCache
	txManager             TransactionManager
	settlementsRolledBack Counter
	logger                Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	gateway PaymentGateway,
	cache CalendarCache,
	txManager TransactionManager,
	settlementsRolledBack Counter,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:              holdRepo,
		gateway:               gateway,
		cache:                 cache,
		txManager:             txManager,
		settlementsRolledBack: settlementsRolledBack,
		logger:                logger,
	}
}

// Execute выполняет явную отмену саги пользователем
// Авторизация снимается у шлюза; идемпотентно - повторная отмена уже
// откаченной саги отвечает успехом
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelSettlement: order=%s by user=%d", req.OrderID, req.ActorUserID)

	result, alreadyRolledBack, err := uc.rollBack(ctx, req.ActorUserID, req.OrderID)
	if err != nil {
		return nil, err
	}

	// Снятие авторизации - вне транзакции; неуспех void не мешает
	// освобождению слота, неснятая авторизация истечет у шлюза сама
	if !alreadyRolledBack {
		if err := uc.gateway.Void(ctx, req.OrderID); err != nil {
			uc.logger.Error("CancelSettlement: failed to void order=%s: %v", req.OrderID, err)
		}
	}

	uc.logger.Info("CancelSettlement: order=%s rolled back", req.OrderID)
	return result, nil
}

// Fail обрабатывает обратный вызов шлюза о неуспехе авторизации
// Авторизации не случилось, снимать у шлюза нечего - только откат hold
func (uc *UseCase) Fail(ctx context.Context, req *FailRequest) (*Response, error) {
	uc.logger.Warn("CancelSettlement: gateway failure for order=%s: code=%s message=%s",
		req.OrderID, req.Code, req.Message)

	result, _, err := uc.rollBack(ctx, req.ActorUserID, req.OrderID)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// rollBack переводит сагу в rolled_back под блокировкой записи
func (uc *UseCase) rollBack(ctx context.Context, actorUserID int64, orderID string) (*Response, bool, error) {
	if actorUserID <= 0 {
		return nil, false, fmt.Errorf("%w: actorUserID must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, false, fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	var result *Response
	var alreadyRolledBack bool

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		hold, err := uc.holdRepo.GetByOrderID(txCtx, orderID)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				return ErrHoldNotFound
			}
			return fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
		}

		if hold.HolderUserID != actorUserID {
			uc.logger.Warn("CancelSettlement: user=%d does not own order=%s", actorUserID, orderID)
			return ErrAccessDenied
		}

		switch hold.State {
		case domain.HoldCommitted:
			return fmt.Errorf("%w: hold is already committed", ErrInvalidState)
		case domain.HoldRolledBack:
			alreadyRolledBack = true
			result = &Response{OrderID: orderID, UnitID: hold.UnitID}
			return nil
		case domain.HoldSettling:
			// Списание в полете - исход решит confirm, отменять поздно
			return fmt.Errorf("%w: hold is settling", ErrInvalidState)
		}

		if err := uc.holdRepo.UpdateState(txCtx, hold.ID, domain.HoldRolledBack); err != nil {
			return fmt.Errorf("%w: failed to roll back hold: %v", ErrInternal, err)
		}

		result = &Response{OrderID: orderID, UnitID: hold.UnitID}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if !alreadyRolledBack {
		uc.settlementsRolledBack.Inc()
		uc.cache.Invalidate(ctx, result.UnitID)
	}

	return result, alreadyRolledBack, nil
}
