package identity

import (
	"context"

	"github.com/soundroom/SRS-BookingEngine/internal/integrations/identitysvc"
)

// IdentityServiceClient интерфейс клиента сервиса идентичности
type IdentityServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*identitysvc.User, error)
	GetGroup(ctx context.Context, groupID int64) (*identitysvc.Group, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
