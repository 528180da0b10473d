package confirm_settlement

import "errors"

var (
	// ErrHoldNotFound возвращается, когда сага с таким order id не найдена
	ErrHoldNotFound = errors.New("confirm_settlement: hold not found")

	// ErrAccessDenied возвращается, когда сага принадлежит другому пользователю
	ErrAccessDenied = errors.New("confirm_settlement: access denied")

	// ErrHoldExpired возвращается, когда hold истек до подтверждения оплаты
	ErrHoldExpired = errors.New("confirm_settlement: hold has expired")

	// ErrInvalidState возвращается при подтверждении из недопустимого состояния
	ErrInvalidState = errors.New("confirm_settlement: invalid hold state")

	// ErrAmountMismatch возвращается при расхождении суммы с зафиксированной
	// ценой саги; расхождение фатально и никогда не корректируется
	ErrAmountMismatch = errors.New("confirm_settlement: amount does not match the quoted price")

	// ErrPaymentFailed возвращается, когда шлюз отклонил списание
	ErrPaymentFailed = errors.New("confirm_settlement: payment capture failed")

	// ErrSlotNotAvailable возвращается, когда слот занят на момент фиксации
	ErrSlotNotAvailable = errors.New("confirm_settlement: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_settlement: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_settlement: internal error")
)
