package check_price

import "errors"

var (
	// ErrUnitNotFound возвращается, когда юнит не найден
	ErrUnitNotFound = errors.New("check_price: unit not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("check_price: booking not found")

	// ErrSlotNotAvailable возвращается при пересечении с занятым слотом
	ErrSlotNotAvailable = errors.New("check_price: slot is not available")

	// ErrSlotInPast возвращается, когда интервал начинается в прошлом
	ErrSlotInPast = errors.New("check_price: slot starts in the past")

	// ErrInvalidDuration возвращается при недопустимой длительности
	ErrInvalidDuration = errors.New("check_price: invalid duration")

	// ErrOutsideHorizon возвращается, когда интервал выходит за горизонт юнита
	ErrOutsideHorizon = errors.New("check_price: slot is outside the availability horizon")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_price: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_price: internal error")
)
