package begin_hold

import "errors"

var (
	// ErrUnitNotFound возвращается, когда юнит не найден
	ErrUnitNotFound = errors.New("begin_hold: unit not found")

	// ErrHoldNotFound возвращается, когда заменяемый hold не найден
	ErrHoldNotFound = errors.New("begin_hold: hold not found")

	// ErrAccessDenied возвращается, когда заменяемый hold принадлежит другому
	ErrAccessDenied = errors.New("begin_hold: access denied")

	// ErrSlotNotAvailable возвращается при пересечении с занятым слотом
	ErrSlotNotAvailable = errors.New("begin_hold: slot is not available")

	// ErrSlotInPast возвращается, когда интервал начинается в прошлом
	ErrSlotInPast = errors.New("begin_hold: slot starts in the past")

	// ErrInvalidDuration возвращается при недопустимой длительности
	ErrInvalidDuration = errors.New("begin_hold: invalid duration")

	// ErrOutsideHorizon возвращается, когда интервал выходит за горизонт юнита
	ErrOutsideHorizon = errors.New("begin_hold: slot is outside the availability horizon")

	// ErrInvalidState возвращается при замене hold из недопустимого состояния
	ErrInvalidState = errors.New("begin_hold: invalid hold state")

	// ErrIdentity возвращается при отказе резолвера заказчика
	ErrIdentity = errors.New("begin_hold: customer identity rejected")

	// ErrPaymentFailed возвращается, когда шлюз отклонил авторизацию
	ErrPaymentFailed = errors.New("begin_hold: payment authorization failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("begin_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("begin_hold: internal error")
)
