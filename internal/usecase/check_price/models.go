package check_price

import "time"

// Request модель запроса расчета стоимости
// При ExcludeBookingID запрос трактуется как проверка изменения существующего
// бронирования: оно исключается из проверки пересечений, а цена считается
// доплатой за AdditionalHours
type Request struct {
	UnitID           string    // ID юнита
	TimeFrom         time.Time // Начало интервала
	DesiredHours     int       // Полная длительность в целых часах
	AdditionalHours  *int      // Доплачиваемые часы (для изменения брони)
	ExcludeBookingID *int64    // Бронирование, исключаемое из проверки
}

// Response модель ответа с рассчитанной стоимостью
type Response struct {
	TotalPrice int64 // Итоговая стоимость или доплата в целых единицах валюты

	// MaxAdditionalHours максимально доступное непрерывное продление
	// существующего бронирования; заполняется только при ExcludeBookingID
	MaxAdditionalHours *int
}
