package paygateway

import (
	"errors"
	"fmt"
)

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paygateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("paygateway client: invalid response")
)

// DeclinedError возвращается, когда шлюз отклонил операцию
// Сохраняет код и сообщение шлюза для отображения пользователю
type DeclinedError struct {
	Op      string // authorize, capture, void
	Code    string
	Message string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("paygateway client: %s declined: %s (%s)", e.Op, e.Message, e.Code)
}

// AsDeclined извлекает DeclinedError из цепочки ошибок
func AsDeclined(err error) (*DeclinedError, bool) {
	var declined *DeclinedError
	if errors.As(err, &declined) {
		return declined, true
	}
	return nil, false
}
