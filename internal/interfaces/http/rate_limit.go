package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"golang.org/x/time/rate"
)

// IPRateLimiter token bucket por IP de cliente.
type IPRateLimiter struct {
	mu    sync.Mutex
	ips   map[string]*visitor
	limit rate.Limit
	burst int
	idle  time.Duration
}

type visitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter limit en eventos por segundo; burst máximo de tokens por IP.
func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:   make(map[string]*visitor),
		limit: limit,
		burst: burst,
		idle:  10 * time.Minute,
	}
}

// AuthRateLimiter límite para login/registro: 10 por minuto por IP, ráfaga de 5.
func AuthRateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Limit(10.0/60.0), 5)
}

// Allow consume un token del bucket de ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.ips[ip]
	if !ok {
		l.sweep(now)
		v = &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
		l.ips[ip] = v
	}
	v.lastSeen = now
	return v.lim.AllowN(now, 1)
}

// sweep descarta buckets inactivos; se llama con mu tomado.
func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, v := range l.ips {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.ips, ip)
		}
	}
}

// Middleware responde 429 cuando la IP agota su cuota.
func (l *IPRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas solicitudes, intente más tarde"})
		}
		return c.Next()
	}
}
