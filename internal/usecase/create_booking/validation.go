package create_booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soundroom/SRS-BookingEngine/internal/service/availability"
	identityResolver "github.com/soundroom/SRS-BookingEngine/internal/service/identity"
)

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

	if strings.TrimSpace(req.DepositorName) == "" {
		return fmt.Errorf("%w: depositorName is required", ErrInvalidInput)
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
