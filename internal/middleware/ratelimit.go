package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
)

const defaultClientTTL = 10 * time.Minute

type clientEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter limits requests per client IP with a token bucket per client.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientEntry
	rps       rate.Limit
	burst     int
	clientTTL time.Duration
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst for every client. A non-positive rps disables limiting.
func NewRateLimiter(rps, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{
		clients:   make(map[string]*clientEntry),
		rps:       limit,
		burst:     burst,
		clientTTL: defaultClientTTL,
		now:       time.Now,
	}
}

// Allow reports whether the client may make a request now.
func (rl *RateLimiter) Allow(client string) bool {
	if rl.rps == rate.Inf {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evict(now)

	entry, ok := rl.clients[client]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[client] = entry
	}
	entry.lastAccess = now
	return entry.limiter.AllowN(now, 1)
}

// evict drops clients idle for longer than the TTL. Callers hold mu.
func (rl *RateLimiter) evict(now time.Time) {
	for client, entry := range rl.clients {
		if now.Sub(entry.lastAccess) > rl.clientTTL {
			delete(rl.clients, client)
		}
	}
}

// Handler answers 429 with a JSON:API error when the client is over its limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(1))
			response.Errors(c, http.StatusTooManyRequests,
				response.NewErrorObject(http.StatusTooManyRequests, "too many requests"))
			return
		}
		c.Next()
	}
}

func internalError(c *gin.Context) {
	response.Errors(c, http.StatusInternalServerError,
		response.NewErrorObject(http.StatusInternalServerError, "internal server error"))
}
