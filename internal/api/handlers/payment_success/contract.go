package payment_success

import (
	"context"

	confirmSettlement "github.com/soundroom/SRS-BookingEngine/internal/usecase/confirm_settlement"
)

type SettlementPreviewer interface {
	Preview(ctx context.Context, req *confirmSettlement.PreviewRequest) (*confirmSettlement.PreviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
