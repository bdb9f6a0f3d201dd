package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
)

// RateLimiter ограничивает частоту запросов по пользователю
// Лимитеры неактивных пользователей живут до перезапуска процесса:
// при одном мастере и его клиентах этого достаточно
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewRateLimiter создает rate limiter c лимитом rps и разрешённым всплеском burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiterFor(userID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[userID] = limiter
	}
	return limiter
}

// Middleware отклоняет запросы сверх лимита со статусом 429
// Вешается после Auth: до аутентификации пользователя ещё нет
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.limiterFor(userID).Allow() {
			handlers.RespondJSON(w, http.StatusTooManyRequests,
				handlers.ErrorResponse{Error: "слишком много запросов"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
