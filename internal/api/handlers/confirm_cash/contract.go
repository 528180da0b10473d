package confirm_cash

import (
	"context"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/internal/service/lifecycle"
)

type LifecycleService interface {
	ConfirmCash(ctx context.Context, bookingID int64, actor lifecycle.Actor) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
