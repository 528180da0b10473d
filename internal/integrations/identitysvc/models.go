package identitysvc

// User модель пользователя из сервиса идентичности
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Group модель группы из сервиса идентичности
type Group struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	OwnerUserID int64   `json:"owner_user_id"`
	Open        bool    `json:"open"` // открыта ли группа для вступления
	MemberIDs   []int64 `json:"member_ids"`
}

// HasMember сообщает, состоит ли пользователь в группе (владелец считается участником)
func (g *Group) HasMember(userID int64) bool {
	if g.OwnerUserID == userID {
		return true
	}
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от сервиса идентичности
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
