package create_booking

import (
	"fmt"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	createBooking "github.com/soundroom/SRS-BookingEngine/internal/usecase/create_booking"
)

// CustomerRef заказчик бронирования: пользователь или группа
type CustomerRef struct {
	Kind string `json:"kind"` // individual | group
	ID   int64  `json:"id"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	UnitID        string      `json:"unitId"`
	TimeFrom      string      `json:"timeFrom"` // RFC3339
	DesiredHours  int         `json:"desiredHours"`
	Customer      CustomerRef `json:"customer"`
	DepositorName string      `json:"depositorName"`
}

// CashPaymentResponse статус наличного платежа
type CashPaymentResponse struct {
	ID            int64  `json:"id"`
	Price         int64  `json:"price"`
	DepositorName string `json:"depositorName"`
	Confirmed     bool   `json:"confirmed"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64                `json:"id"`
	UnitID        string               `json:"unitId"`
	HolderUserID  int64                `json:"holderUserId"`
	HolderName    string               `json:"holderName"`
	Customer      CustomerRef          `json:"customer"`
	StartTime     string               `json:"startTime"`
	DurationHours int                  `json:"durationHours"`
	Status        string               `json:"status"`
	CashPayment   *CashPaymentResponse `json:"cashPayment,omitempty"`
	CreatedAt     string               `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actorUserID int64) (*createBooking.Request, error) {
	timeFrom, err := time.Parse(time.RFC3339, r.TimeFrom)
	if err != nil {
		return nil, fmt.Errorf("parse timeFrom: %w", err)
	}

	return &createBooking.Request{
		ActorUserID:   actorUserID,
		UnitID:        r.UnitID,
		TimeFrom:      timeFrom,
		DesiredHours:  r.DesiredHours,
		Customer:      domain.IdentityRef{Kind: domain.IdentityKind(r.Customer.Kind), ID: r.Customer.ID},
		DepositorName: r.DepositorName,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	b := resp.Booking

	out := &BookingResponse{
		ID:            b.ID,
		UnitID:        b.UnitID,
		HolderUserID:  b.HolderUserID,
		HolderName:    b.HolderName,
		Customer:      CustomerRef{Kind: string(b.Customer.Kind), ID: b.Customer.ID},
		StartTime:     b.StartTime.Format(time.RFC3339),
		DurationHours: b.DurationHours,
		Status:        string(b.EffectiveStatus(time.Now())),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}

	if resp.CashPayment != nil {
		out.CashPayment = &CashPaymentResponse{
			ID:            resp.CashPayment.ID,
			Price:         resp.CashPayment.Price,
			DepositorName: resp.CashPayment.DepositorName,
			Confirmed:     resp.CashPayment.IsConfirmed(),
		}
	}

	return out
}
