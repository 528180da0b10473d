package payment_fail

import (
	"context"

	cancelSettlement "github.com/soundroom/SRS-BookingEngine/internal/usecase/cancel_settlement"
)

type SettlementFailer interface {
	Fail(ctx context.Context, req *cancelSettlement.FailRequest) (*cancelSettlement.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
