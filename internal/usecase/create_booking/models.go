package create_booking

import (
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

// Request модель запроса на создание бронирования (наличная оплата)
type Request struct {
	ActorUserID   int64              // ID инициатора (держатель брони)
	UnitID        string             // ID юнита
	TimeFrom      time.Time          // Начало интервала (час, UTC-офсет обязателен)
	DesiredHours  int                // Длительность в целых часах
	Customer      domain.IdentityRef // Заказчик: пользователь или группа
	DepositorName string             // Имя вкладчика для наличного платежа
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking     *domain.Booking
	CashPayment *domain.CashPaymentStatus
}
