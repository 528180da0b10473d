package identity

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("identity: user not found")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("identity: group not found")

	// ErrNotGroupMember возвращается, когда пользователь не состоит в группе
	ErrNotGroupMember = errors.New("identity: user is not a member of the group")

	// ErrInvalidIdentity возвращается при некорректной ссылке на заказчика
	ErrInvalidIdentity = errors.New("identity: invalid customer identity")

	// ErrInternal возвращается при внутренних ошибках резолвера
	ErrInternal = errors.New("identity: internal error")
)
