package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	config   RateLimiterConfig
}

func (r *rateLimiter) getVisitor(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(r.config.RequestsPerSecond), r.config.Burst)
		r.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (r *rateLimiter) cleanupVisitors() {
	for {
		time.Sleep(r.config.CleanupInterval)
		r.mu.Lock()
		for ip, v := range r.visitors {
			if time.Since(v.lastSeen) > r.config.TTL {
				delete(r.visitors, ip)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimiterMiddleware limits every client IP to a token bucket
func RateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}
	if config.Burst == 0 {
		config.Burst = config.RequestsPerSecond
	}

	r := &rateLimiter{
		visitors: make(map[string]*visitor),
		config:   config,
	}

	go r.cleanupVisitors()

	return func(c *gin.Context) {
		limiter := r.getVisitor(c.ClientIP())

		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many requests",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}
