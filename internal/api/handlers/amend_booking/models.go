package amend_booking

import (
	"fmt"
	"time"

	amendBooking "github.com/soundroom/SRS-BookingEngine/internal/usecase/amend_booking"
)

// AmendBookingRequest HTTP request model
// Ровно одна из веток: изменение расписания либо передача заказчика группе
type AmendBookingRequest struct {
	NewStart          *string `json:"newStart,omitempty"` // RFC3339
	AdditionalHours   int     `json:"additionalHours,omitempty"`
	TransferToGroupID *int64  `json:"transferToGroupId,omitempty"`
	ExistingHoldID    *string `json:"existingHoldId,omitempty"`
}

// CustomerRef заказчик бронирования: пользователь или группа
type CustomerRef struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// BookingResponse бронирование в HTTP проекции
type BookingResponse struct {
	ID            int64       `json:"id"`
	UnitID        string      `json:"unitId"`
	Customer      CustomerRef `json:"customer"`
	StartTime     string      `json:"startTime"`
	DurationHours int         `json:"durationHours"`
	Status        string      `json:"status"`
}

// AmendBookingResponse HTTP response model
// При paymentRequired изменение еще не применено: клиент обязан завершить
// оплату по redirectUrl, echo суммы при подтверждении - incrementalPrice
type AmendBookingResponse struct {
	Booking          *BookingResponse `json:"booking"`
	IncrementalPrice int64            `json:"incrementalPrice"`
	PaymentRequired  bool             `json:"paymentRequired"`
	OrderID          string           `json:"foreignPaymentId,omitempty"`
	HoldID           string           `json:"holdId,omitempty"`
	RedirectURL      string           `json:"redirectUrl,omitempty"`
	ExpiresAt        string           `json:"expiresAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AmendBookingRequest) ToUseCaseRequest(actorUserID int64, staff bool, bookingID int64) (*amendBooking.Request, error) {
	req := &amendBooking.Request{
		ActorUserID:       actorUserID,
		Staff:             staff,
		BookingID:         bookingID,
		AdditionalHours:   r.AdditionalHours,
		TransferToGroupID: r.TransferToGroupID,
		ExistingHoldID:    r.ExistingHoldID,
	}

	if r.NewStart != nil {
		newStart, err := time.Parse(time.RFC3339, *r.NewStart)
		if err != nil {
			return nil, fmt.Errorf("parse newStart: %w", err)
		}
		req.NewStart = &newStart
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *amendBooking.Response) *AmendBookingResponse {
	out := &AmendBookingResponse{
		IncrementalPrice: resp.IncrementalPrice,
		PaymentRequired:  resp.PaymentRequired,
		OrderID:          resp.OrderID,
		HoldID:           resp.HoldID,
		RedirectURL:      resp.RedirectURL,
	}

	if resp.PaymentRequired {
		out.ExpiresAt = resp.ExpiresAt.Format(time.RFC3339)
	}

	if resp.Booking != nil {
		b := resp.Booking
		out.Booking = &BookingResponse{
			ID:            b.ID,
			UnitID:        b.UnitID,
			Customer:      CustomerRef{Kind: string(b.Customer.Kind), ID: b.Customer.ID},
			StartTime:     b.StartTime.Format(time.RFC3339),
			DurationHours: b.DurationHours,
			Status:        string(b.EffectiveStatus(time.Now())),
		}
	}

	return out
}
