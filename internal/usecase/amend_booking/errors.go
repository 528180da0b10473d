package amend_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("amend_booking: booking not found")

	// ErrUnitNotFound возвращается, когда юнит не найден
	ErrUnitNotFound = errors.New("amend_booking: unit not found")

	// ErrAccessDenied возвращается, когда инициатор не вправе менять бронь
	ErrAccessDenied = errors.New("amend_booking: access denied")

	// ErrInvalidState возвращается при изменении из недопустимого статуса
	ErrInvalidState = errors.New("amend_booking: invalid booking state for amendment")

	// ErrSlotNotAvailable возвращается при пересечении с занятым слотом
	ErrSlotNotAvailable = errors.New("amend_booking: slot is not available")

	// ErrSlotInPast возвращается, когда новый интервал начинается в прошлом
	ErrSlotInPast = errors.New("amend_booking: slot starts in the past")

	// ErrInvalidDuration возвращается при недопустимой длительности
	ErrInvalidDuration = errors.New("amend_booking: invalid duration")

	// ErrOutsideHorizon возвращается, когда интервал выходит за горизонт юнита
	ErrOutsideHorizon = errors.New("amend_booking: slot is outside the availability horizon")

	// ErrGroupNotFound возвращается, когда целевая группа не найдена
	ErrGroupNotFound = errors.New("amend_booking: group not found")

	// ErrTransferNotAllowed возвращается, когда передача заказчика запрещена:
	// обратной передачи от группы не существует, закрытая группа принимает
	// только своих участников
	ErrTransferNotAllowed = errors.New("amend_booking: identity transfer is not allowed")

	// ErrPaymentFailed возвращается, когда шлюз отклонил авторизацию доплаты
	ErrPaymentFailed = errors.New("amend_booking: payment authorization failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("amend_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("amend_booking: internal error")
)
