package cancel_settlement

import (
	"context"

	cancelSettlement "github.com/soundroom/SRS-BookingEngine/internal/usecase/cancel_settlement"
)

type CancelSettlementUseCase interface {
	Execute(ctx context.Context, req *cancelSettlement.Request) (*cancelSettlement.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
