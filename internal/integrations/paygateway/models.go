package paygateway

// Authorization результат авторизации платежа
// Шлюз резервирует сумму и возвращает URL для завершения оплаты пользователем
type Authorization struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

// Capture результат списания авторизованной суммы
type Capture struct {
	OrderID    string `json:"order_id"`
	PaymentKey string `json:"payment_key"`
	Amount     int64  `json:"amount"`
}

// gatewayErrorResponse модель ошибки от платежного шлюза
type gatewayErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type authorizeRequest struct {
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	CustomerKey string `json:"customer_key"`
}

type captureRequest struct {
	OrderID    string `json:"order_id"`
	PaymentKey string `json:"payment_key"`
	Amount     int64  `json:"amount"`
}

type voidRequest struct {
	OrderID string `json:"order_id"`
}
