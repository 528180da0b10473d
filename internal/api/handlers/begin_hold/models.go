package begin_hold

import (
	"fmt"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	beginHold "github.com/soundroom/SRS-BookingEngine/internal/usecase/begin_hold"
)

// CustomerRef заказчик бронирования: пользователь или группа
type CustomerRef struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// BeginHoldRequest HTTP request model
type BeginHoldRequest struct {
	UnitID         string      `json:"unitId"`
	TimeFrom       string      `json:"timeFrom"` // RFC3339
	DesiredHours   int         `json:"desiredHours"`
	Customer       CustomerRef `json:"customer"`
	ExistingHoldID *string     `json:"existingHoldId,omitempty"`
}

// BeginHoldResponse HTTP response model
// orderId сопровождает весь платежный round trip: шлюз вернет пользователя
// с ним на /payments/success или /payments/fail
type BeginHoldResponse struct {
	HoldID      string `json:"holdId"`
	OrderID     string `json:"orderId"`
	QuotedPrice int64  `json:"quotedPrice"`
	RedirectURL string `json:"redirectUrl"`
	ExpiresAt   string `json:"expiresAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BeginHoldRequest) ToUseCaseRequest(actorUserID int64) (*beginHold.Request, error) {
	timeFrom, err := time.Parse(time.RFC3339, r.TimeFrom)
	if err != nil {
		return nil, fmt.Errorf("parse timeFrom: %w", err)
	}

	return &beginHold.Request{
		ActorUserID:    actorUserID,
		UnitID:         r.UnitID,
		TimeFrom:       timeFrom,
		DesiredHours:   r.DesiredHours,
		Customer:       domain.IdentityRef{Kind: domain.IdentityKind(r.Customer.Kind), ID: r.Customer.ID},
		ExistingHoldID: r.ExistingHoldID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *beginHold.Response) *BeginHoldResponse {
	return &BeginHoldResponse{
		HoldID:      resp.HoldID,
		OrderID:     resp.OrderID,
		QuotedPrice: resp.QuotedPrice,
		RedirectURL: resp.RedirectURL,
		ExpiresAt:   resp.ExpiresAt.Format(time.RFC3339),
	}
}
