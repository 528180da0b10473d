package paygateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного шлюза
// Контракт шлюза: authorize резервирует сумму и возвращает redirect,
// capture списывает авторизованную сумму, void снимает авторизацию
//
// Вызовы шлюза никогда не выполняются под блокировкой слотов юнита:
// сетевой round trip ограничен таймаутом httpClient, а результат
// фиксируется отдельной транзакцией
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного шлюза
func NewClient(baseURL, secretKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Authorize резервирует сумму у шлюза и возвращает redirect URL
func (c *Client) Authorize(ctx context.Context, orderID string, amount int64, customerKey string) (*Authorization, error) {
	var auth Authorization
	err := c.post(ctx, "/v1/payments/authorize", "authorize", authorizeRequest{
		OrderID:     orderID,
		Amount:      amount,
		CustomerKey: customerKey,
	}, &auth)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

// Capture списывает ранее авторизованную сумму
func (c *Client) Capture(ctx context.Context, orderID, paymentKey string, amount int64) (*Capture, error) {
	var capture Capture
	err := c.post(ctx, "/v1/payments/capture", "capture", captureRequest{
		OrderID:    orderID,
		PaymentKey: paymentKey,
		Amount:     amount,
	}, &capture)
	if err != nil {
		return nil, err
	}
	return &capture, nil
}

// Void снимает авторизацию без списания
func (c *Client) Void(ctx context.Context, orderID string) error {
	return c.post(ctx, "/v1/payments/void", "void", voidRequest{OrderID: orderID}, nil)
}

func (c *Client) post(ctx context.Context, path, op string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Шлюз отклонил операцию - сохраняем его код и сообщение
		var gwErr gatewayErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&gwErr); err != nil {
			return fmt.Errorf("%w: %s rejected with status %d, unreadable body: %v",
				ErrInvalidResponse, op, resp.StatusCode, err)
		}
		c.log.Warn("Gateway declined %s: code=%s message=%s", op, gwErr.Code, gwErr.Message)
		return &DeclinedError{Op: op, Code: gwErr.Code, Message: gwErr.Message}
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
