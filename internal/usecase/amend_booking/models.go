package amend_booking

import (
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

// Request модель запроса на изменение бронирования
// Ровно одна из двух веток: передача заказчика группе (TransferToGroupID)
// либо изменение расписания (NewStart и/или AdditionalHours)
type Request struct {
	ActorUserID int64 // ID инициатора
	Staff       bool  // Признак персонала
	BookingID   int64 // ID изменяемого бронирования

	NewStart        *time.Time // Новое начало интервала (перенос бесплатен)
	AdditionalHours int        // Доплачиваемые дополнительные часы

	TransferToGroupID *int64 // Целевая группа для передачи заказчика

	ExistingHoldID *string // Заменяемый hold при повторном входе в оплату
}

// Response модель ответа на изменение бронирования
// При IncrementalPrice > 0 изменение не применено: возвращаются реквизиты
// платежной саги, бронь не тронута до подтверждения оплаты
type Response struct {
	Booking          *domain.Booking
	IncrementalPrice int64

	PaymentRequired bool
	HoldID          string
	OrderID         string
	RedirectURL     string
	ExpiresAt       time.Time
}
