package domain

import "time"

// PaymentMethod distinguishes the manual cash flow from the gateway saga.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

// CashPaymentStatus tracks a manually settled payment: the depositor wires
// the price and staff confirm it by hand. The refund sub-record is
// independent of the booking's own status.
type CashPaymentStatus struct {
	ID            int64
	BookingID     int64
	Price         int64
	DepositorName string
	ConfirmedAt   *time.Time

	RefundRequested bool
	RefundAccount   *string
	RefundPrice     *int64
	Refunded        bool
	RefundedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed reports whether staff have confirmed the deposit.
func (c *CashPaymentStatus) IsConfirmed() bool {
	return c.ConfirmedAt != nil
}

// HasPendingRefund reports whether a refund was requested but not processed.
func (c *CashPaymentStatus) HasPendingRefund() bool {
	return c.RefundRequested && !c.Refunded
}

// OnlinePaymentTransaction records a gateway-settled payment. The gateway is
// authoritative for the money movement, so the shape is simpler than cash.
type OnlinePaymentTransaction struct {
	ID          int64
	BookingID   int64
	OrderID     string
	PaymentKey  string
	Price       int64
	ConfirmedAt time.Time

	RefundPrice *int64
	Refunded    bool
	RefundedAt  *time.Time

	CreatedAt time.Time
}
