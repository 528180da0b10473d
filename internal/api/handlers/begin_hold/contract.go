package begin_hold

import (
	"context"

	beginHold "github.com/soundroom/SRS-BookingEngine/internal/usecase/begin_hold"
)

type BeginHoldUseCase interface {
	Execute(ctx context.Context, req *beginHold.Request) (*beginHold.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
