package cancel_settlement

import "errors"

var (
	// ErrHoldNotFound возвращается, когда сага с таким order id не найдена
	ErrHoldNotFound = errors.New("cancel_settlement: hold not found")

	// ErrAccessDenied возвращается, когда сага принадлежит другому пользователю
	ErrAccessDenied = errors.New("cancel_settlement: access denied")

	// ErrInvalidState возвращается при отмене уже зафиксированной саги
	ErrInvalidState = errors.New("cancel_settlement: invalid hold state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_settlement: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_settlement: internal error")
)
