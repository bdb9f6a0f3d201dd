package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/domain"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

// HeaderUserID и HeaderUserRole проставляет API gateway после
// проверки токена; сервис доверяет этим заголовкам
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Auth извлекает пользователя и роль из заголовков gateway
// Запросы без валидного X-User-ID отклоняются
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+HeaderUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный "+HeaderUserID)
			return
		}

		role := domain.Role(r.Header.Get(HeaderUserRole))
		if role != domain.RoleProvider {
			// Все, кто не мастер, действуют как клиенты
			role = domain.RoleRequester
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID возвращает ID пользователя из контекста запроса
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// UserRole возвращает роль пользователя из контекста запроса
func UserRole(ctx context.Context) domain.Role {
	role, ok := ctx.Value(userRoleKey).(domain.Role)
	if !ok {
		return domain.RoleRequester
	}
	return role
}

// RequireProvider пропускает только мастера
func RequireProvider(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserRole(r.Context()) != domain.RoleProvider {
			handlers.RespondForbidden(w, "доступно только мастеру")
			return
		}
		next.ServeHTTP(w, r)
	})
}
