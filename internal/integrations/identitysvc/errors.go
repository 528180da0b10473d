package identitysvc

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("identitysvc client: user not found")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("identitysvc client: group not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identitysvc client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("identitysvc client: invalid response")
)
