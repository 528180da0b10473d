package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда инициатор не держатель и не персонал
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrInvalidState возвращается при отмене из недопустимого статуса
	ErrInvalidState = errors.New("cancel_booking: invalid booking state for cancellation")

	// ErrRefundAccountRequired возвращается, когда для возврата нужен счет
	ErrRefundAccountRequired = errors.New("cancel_booking: refund account is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
