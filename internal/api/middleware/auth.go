package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/soundroom/SRS-BookingEngine/internal/api/handlers"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	staffKey  contextKey = "staff"

	// HeaderUserID проставляется доверенным upstream после аутентификации
	HeaderUserID = "X-User-ID"

	// HeaderUserRole со значением "staff" открывает административные операции
	HeaderUserRole = "X-User-Role"

	roleStaff = "staff"
)

// Auth требует валидный X-User-ID и кладет личность в контекст запроса
// Сам сервис токены не проверяет - аутентификация происходит выше по стеку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		if rawID == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "требуется заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, staffKey, r.Header.Get(HeaderUserRole) == roleStaff)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID возвращает ID пользователя из контекста запроса
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// IsStaff возвращает признак персонала из контекста запроса
func IsStaff(ctx context.Context) bool {
	staff, _ := ctx.Value(staffKey).(bool)
	return staff
}

// OptionalAuth кладет личность в контекст, если заголовки есть, но не
// требует их: публичные маршруты показывают анониму маскированную проекцию
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		if rawID == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, staffKey, r.Header.Get(HeaderUserRole) == roleStaff)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
