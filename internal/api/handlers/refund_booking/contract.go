package refund_booking

import (
	"context"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/service/lifecycle"
)

type LifecycleService interface {
	Refund(ctx context.Context, bookingID int64, actor lifecycle.Actor) (*domain.CashPaymentStatus, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
