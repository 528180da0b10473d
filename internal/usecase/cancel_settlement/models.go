package cancel_settlement

// Request модель запроса на отмену платежной саги пользователем
type Request struct {
	ActorUserID int64  // ID инициатора (держатель hold)
	OrderID     string // Ключ саги, выданный при старте
}

// FailRequest модель обратного вызова шлюза о неуспехе авторизации
// Код и сообщение шлюза логируются для расследования, пользователю
// не возвращаются
type FailRequest struct {
	ActorUserID int64
	OrderID     string
	Code        string
	Message     string
}

// Response модель ответа с освобожденным слотом
type Response struct {
	OrderID string
	UnitID  string
}
