package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitConfig holds rate limit settings in limiter's formatted syntax
// ("100-M" = 100/min). Empty disables a limiter.
type RateLimitConfig struct {
	RatePerIP   string
	RatePerUser string
}

// newStore shares counters through Redis when a client is given.
func newStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix}), nil
	}
	return redisstore.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
}

// NewIPRateLimiter limits by client IP. Put it after chi's RealIP.
func NewIPRateLimiter(rateFormatted string, client *redis.Client) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	store, err := newStore(client, "qonnect_ip")
	if err != nil {
		return nil, err
	}
	return stdlib.NewMiddleware(limiter.New(store, rate)).Handler, nil
}

// NewUserRateLimiter limits by authenticated principal. Use after Authenticator.
func NewUserRateLimiter(rateFormatted string, client *redis.Client) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	store, err := newStore(client, "qonnect_user")
	if err != nil {
		return nil, err
	}
	return userLimitMiddleware(limiter.New(store, rate)), nil
}

func userLimitMiddleware(instance *limiter.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := PrincipalFromContext(r.Context())
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx, err := instance.Get(r.Context(), "user:"+user.ID.String())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", ctx.Reset))
			if ctx.Reached {
				writeErr(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
