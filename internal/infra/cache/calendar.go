package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// CalendarCache кэш ответов календаря занятых слотов с коротким TTL
// Смягчает поллинг клиентов: повторные чтения одного юнита в пределах TTL
// не ходят в БД. Каждая запись по юниту инвалидируется при любой записи,
// затрагивающей его расписание; авторитетна всегда проверка на коммите
type CalendarCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создает кэш календаря поверх Redis
func New(client *redis.Client, ttl time.Duration) *CalendarCache {
	return &CalendarCache{client: client, ttl: ttl}
}

func calendarKey(unitID string) string {
	return fmt.Sprintf("calendar:%s", unitID)
}

// Get возвращает закэшированный ответ календаря для юнита
// Отсутствие записи и ошибки Redis неразличимы для вызывающего: и то и
// другое означает "иди в БД"
func (c *CalendarCache) Get(ctx context.Context, unitID string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, calendarKey(unitID)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set кладет ответ календаря в кэш с TTL
func (c *CalendarCache) Set(ctx context.Context, unitID string, payload []byte) {
	c.client.Set(ctx, calendarKey(unitID), payload, c.ttl)
}

// Invalidate сбрасывает кэш календаря юнита
func (c *CalendarCache) Invalidate(ctx context.Context, unitID string) {
	c.client.Del(ctx, calendarKey(unitID))
}

// Noop заглушка кэша, когда Redis отключен в конфигурации
type Noop struct{}

// Get всегда промахивается
func (Noop) Get(ctx context.Context, unitID string) ([]byte, bool) { return nil, false }

// Set ничего не делает
func (Noop) Set(ctx context.Context, unitID string, payload []byte) {}

// Invalidate ничего не делает
func (Noop) Invalidate(ctx context.Context, unitID string) {}
