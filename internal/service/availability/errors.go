package availability

import "errors"

var (
	// ErrUnitNotFound возвращается, когда юнит не найден или неактивен
	ErrUnitNotFound = errors.New("availability: unit not found")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с живой
	// бронью или неистекшим hold
	ErrSlotNotAvailable = errors.New("availability: slot is not available")

	// ErrSlotInPast возвращается, когда начало интервала уже прошло
	ErrSlotInPast = errors.New("availability: slot start is in the past")

	// ErrInvalidDuration возвращается при длительности вне [1, max] юнита
	ErrInvalidDuration = errors.New("availability: invalid duration")

	// ErrOutsideHorizon возвращается, когда интервал выходит за окно доступности юнита
	ErrOutsideHorizon = errors.New("availability: slot is outside the bookable horizon")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
