package cancel_booking

import (
	"time"

	cancelBooking "github.com/soundroom/SRS-BookingEngine/internal/usecase/cancel_booking"
)

// CashPaymentStatusResponse статус наличного платежа после отмены
type CashPaymentStatusResponse struct {
	ID              int64   `json:"id"`
	Price           int64   `json:"price"`
	RefundRequested bool    `json:"refundRequested"`
	RefundAccount   *string `json:"refundAccount,omitempty"`
	RefundPrice     *int64  `json:"refundPrice,omitempty"`
	Refunded        bool    `json:"refunded"`
}

// CancelBookingResponse HTTP response model
// cashPaymentStatus null, когда отмена не породила запроса возврата
type CancelBookingResponse struct {
	ID                int64                      `json:"id"`
	Status            string                     `json:"status"`
	CanceledAt        string                     `json:"canceledAt"`
	CashPaymentStatus *CashPaymentStatusResponse `json:"cashPaymentStatus"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	out := &CancelBookingResponse{
		ID:     resp.Booking.ID,
		Status: string(resp.Booking.Status),
	}

	if resp.Booking.CanceledAt != nil {
		out.CanceledAt = resp.Booking.CanceledAt.Format(time.RFC3339)
	}

	if resp.CashPayment != nil {
		out.CashPaymentStatus = &CashPaymentStatusResponse{
			ID:              resp.CashPayment.ID,
			Price:           resp.CashPayment.Price,
			RefundRequested: resp.CashPayment.RefundRequested,
			RefundAccount:   resp.CashPayment.RefundAccount,
			RefundPrice:     resp.CashPayment.RefundPrice,
			Refunded:        resp.CashPayment.Refunded,
		}
	}

	return out
}
