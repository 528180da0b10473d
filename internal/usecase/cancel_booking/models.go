package cancel_booking

import "github.com/soundroom/SRS-BookingEngine/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	ActorUserID   int64   // ID инициатора
	Staff         bool    // Признак персонала
	BookingID     int64   // ID отменяемого бронирования
	RefundAccount *string // Счет для возврата (обязателен не в день брони)
}

// Response модель ответа с отмененным бронированием
// CashPayment заполняется, когда отмена породила запрос возврата
type Response struct {
	Booking     *domain.Booking
	CashPayment *domain.CashPaymentStatus
}
