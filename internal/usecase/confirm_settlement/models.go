package confirm_settlement

import (
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

// Request модель запроса на подтверждение оплаты
// Amount - сумма, которую видел и подтвердил пользователь; она обязана
// совпасть с ценой, зафиксированной при старте саги
type Request struct {
	ActorUserID int64  // ID инициатора (держатель hold)
	OrderID     string // Ключ саги, выданный при старте
	PaymentKey  string // Ключ платежа от шлюза
	Amount      int64  // Эхо суммы от клиента
}

// Response модель ответа с зафиксированным бронированием
// AlreadyCommitted выставляется при повторном подтверждении той же саги
type Response struct {
	Booking          *domain.Booking
	Payment          *domain.OnlinePaymentTransaction
	AlreadyCommitted bool
}

// PreviewRequest модель запроса предпросмотра саги после возврата от шлюза
type PreviewRequest struct {
	ActorUserID int64
	OrderID     string
}

// PreviewResponse модель предпросмотра: удерживаемый слот и сумма к оплате
// Денежных движений предпросмотр не производит
type PreviewResponse struct {
	OrderID       string
	UnitID        string
	StartTime     time.Time
	DurationHours int
	QuotedPrice   int64
	ExpiresAt     time.Time
}
