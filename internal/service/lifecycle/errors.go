package lifecycle

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("lifecycle: booking not found")

	// ErrAccessDenied возвращается, когда операция доступна только персоналу
	ErrAccessDenied = errors.New("lifecycle: access denied")

	// ErrInvalidState возвращается при переходе из недопустимого статуса
	ErrInvalidState = errors.New("lifecycle: invalid booking state for this transition")

	// ErrNoRefundPending возвращается, когда нет ожидающего запроса возврата
	ErrNoRefundPending = errors.New("lifecycle: no pending refund request")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lifecycle: internal error")
)
