package check_price

import (
	"context"

	checkPrice "github.com/soundroom/SRS-BookingEngine/internal/usecase/check_price"
)

type CheckPriceUseCase interface {
	Execute(ctx context.Context, req *checkPrice.Request) (*checkPrice.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
