package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/integrations/identitysvc"
)

// Resolver резолвер заказчика бронирования
// Заказчик - ровно один из {пользователь, группа}; резолвер проверяет, что
// инициатор вправе бронировать от имени заказчика, и возвращает имя держателя
// для читательской проекции. Членство в группах авторитетно определяет
// внешний сервис идентичности
type Resolver struct {
	client IdentityServiceClient
	logger Logger
}

// NewResolver создает новый резолвер заказчика
func NewResolver(client IdentityServiceClient, logger Logger) *Resolver {
	return &Resolver{client: client, logger: logger}
}

// Resolution результат резолва заказчика
type Resolution struct {
	Customer   domain.IdentityRef
	HolderName string
}

// Resolve проверяет заказчика ref от имени инициатора actorUserID
// Индивидуальный заказчик обязан совпадать с инициатором; от имени группы
// бронирует только её участник (владелец считается участником)
func (r *Resolver) Resolve(ctx context.Context, actorUserID int64, ref domain.IdentityRef) (*Resolution, error) {
	if !ref.Valid() {
		return nil, ErrInvalidIdentity
	}

	user, err := r.client.GetUser(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, identitysvc.ErrUserNotFound) {
			r.logger.Warn("Resolve: actor user id=%d not found", actorUserID)
			return nil, ErrUserNotFound
		}
		r.logger.Error("Resolve: failed to get user id=%d: %v", actorUserID, err)
		return nil, fmt.Errorf("%w: get user: %v", ErrInternal, err)
	}

	switch ref.Kind {
	case domain.IdentityIndividual:
		if ref.ID != actorUserID {
			r.logger.Warn("Resolve: actor id=%d cannot book as individual id=%d", actorUserID, ref.ID)
			return nil, ErrInvalidIdentity
		}

	case domain.IdentityGroup:
		group, err := r.client.GetGroup(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, identitysvc.ErrGroupNotFound) {
				r.logger.Warn("Resolve: group id=%d not found", ref.ID)
				return nil, ErrGroupNotFound
			}
			r.logger.Error("Resolve: failed to get group id=%d: %v", ref.ID, err)
			return nil, fmt.Errorf("%w: get group: %v", ErrInternal, err)
		}
		if !group.HasMember(actorUserID) {
			r.logger.Warn("Resolve: user id=%d is not a member of group id=%d", actorUserID, ref.ID)
			return nil, ErrNotGroupMember
		}
	}

	return &Resolution{Customer: ref, HolderName: user.Name}, nil
}
