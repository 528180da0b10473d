package create_booking

import "errors"

var (
	// ErrUnitNotFound возвращается, когда юнит не найден
	ErrUnitNotFound = errors.New("create_booking: unit not found")

	// ErrSlotNotAvailable возвращается, когда интервал уже занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrSlotInPast возвращается, когда начало интервала уже прошло
	ErrSlotInPast = errors.New("create_booking: slot start is in the past")

	// ErrInvalidDuration возвращается при длительности вне лимитов юнита
	ErrInvalidDuration = errors.New("create_booking: invalid duration")

	// ErrOutsideHorizon возвращается, когда интервал выходит за окно доступности
	ErrOutsideHorizon = errors.New("create_booking: slot is outside the bookable horizon")

	// ErrIdentity возвращается при некорректном заказчике или отсутствии членства
	ErrIdentity = errors.New("create_booking: invalid customer identity")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
