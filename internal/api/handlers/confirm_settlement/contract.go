package confirm_settlement

import (
	"context"

	confirmSettlement "github.com/soundroom/SRS-BookingEngine/internal/usecase/confirm_settlement"
)

type ConfirmSettlementUseCase interface {
	Execute(ctx context.Context, req *confirmSettlement.Request) (*confirmSettlement.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
