package amend_booking

import (
	"context"

	amendBooking "github.com/soundroom/SRS-BookingEngine/internal/usecase/amend_booking"
)

type AmendBookingUseCase interface {
	Execute(ctx context.Context, req *amendBooking.Request) (*amendBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
