package begin_hold

import (
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

// Request модель запроса на старт платежной саги
// ExistingHoldID задается при повторном входе: прежний hold того же
// пользователя заменяется новым, а не дублируется
type Request struct {
	ActorUserID    int64              // ID инициатора (держатель hold)
	UnitID         string             // ID юнита
	TimeFrom       time.Time          // Начало интервала
	DesiredHours   int                // Длительность в целых часах
	Customer       domain.IdentityRef // Заказчик: пользователь или группа
	ExistingHoldID *string            // Заменяемый hold при повторном входе
}

// Response модель ответа со стартовавшей сагой
// OrderID - ключ всего платежного round trip, по нему шлюз вернет пользователя
type Response struct {
	HoldID      string
	OrderID     string
	QuotedPrice int64
	RedirectURL string
	ExpiresAt   time.Time
}
