package confirm_settlement

import (
	"time"

	confirmSettlement "github.com/soundroom/SRS-BookingEngine/internal/usecase/confirm_settlement"
)

// ConfirmSettlementRequest HTTP request model
// amount - сумма, которую пользователь видел на экране подтверждения;
// расхождение с зафиксированной ценой саги фатально
type ConfirmSettlementRequest struct {
	OrderID    string `json:"orderId"`
	PaymentKey string `json:"paymentKey"`
	Amount     int64  `json:"amount"`
}

// CustomerRef заказчик бронирования: пользователь или группа
type CustomerRef struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// BookingResponse зафиксированное бронирование
type BookingResponse struct {
	ID            int64       `json:"id"`
	UnitID        string      `json:"unitId"`
	Customer      CustomerRef `json:"customer"`
	StartTime     string      `json:"startTime"`
	DurationHours int         `json:"durationHours"`
	Status        string      `json:"status"`
}

// ConfirmSettlementResponse HTTP response model
type ConfirmSettlementResponse struct {
	Booking          *BookingResponse `json:"booking"`
	OrderID          string           `json:"orderId"`
	AlreadyCommitted bool             `json:"alreadyCommitted"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(orderID string, resp *confirmSettlement.Response) *ConfirmSettlementResponse {
	b := resp.Booking

	return &ConfirmSettlementResponse{
		Booking: &BookingResponse{
			ID:            b.ID,
			UnitID:        b.UnitID,
			Customer:      CustomerRef{Kind: string(b.Customer.Kind), ID: b.Customer.ID},
			StartTime:     b.StartTime.Format(time.RFC3339),
			DurationHours: b.DurationHours,
			Status:        string(b.EffectiveStatus(time.Now())),
		},
		OrderID:          orderID,
		AlreadyCommitted: resp.AlreadyCommitted,
	}
}
