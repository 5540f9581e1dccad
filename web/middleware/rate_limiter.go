package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	MessagesPerMinute int           // Max chat messages per tenant per minute
	BurstSize         int           // Allow burst of N requests
	CleanupInterval   time.Duration // How often to clean up old entries
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can proceed and consumes a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	tb.tokens = min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Remaining returns the number of tokens remaining
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tokens := min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	return int(tokens)
}

// TenantRateLimiter manages chat rate limits per tenant
type TenantRateLimiter struct {
	config      RateLimiterConfig
	limits      map[string]*TokenBucket
	mu          sync.RWMutex
	logger      *zap.Logger
	stopCleanup chan struct{}
}

// NewTenantRateLimiter creates a new tenant-keyed rate limiter
func NewTenantRateLimiter(config RateLimiterConfig, logger *zap.Logger) *TenantRateLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 10 * time.Minute
	}
	limiter := &TenantRateLimiter{
		config:      config,
		limits:      make(map[string]*TokenBucket),
		logger:      logger,
		stopCleanup: make(chan struct{}),
	}

	// Start cleanup goroutine
	go limiter.cleanupRoutine()

	return limiter
}

// cleanupRoutine periodically removes stale entries
func (trl *TenantRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(trl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			trl.cleanup()
		case <-trl.stopCleanup:
			return
		}
	}
}

// cleanup clears the bucket map once it grows past a bound. Buckets refill
// from full on recreation, so dropping one only ever loosens a limit briefly.
func (trl *TenantRateLimiter) cleanup() {
	trl.mu.Lock()
	defer trl.mu.Unlock()

	if len(trl.limits) > 1000 {
		trl.logger.Info("Cleaning up rate limiter cache", zap.Int("limiters", len(trl.limits)))
		trl.limits = make(map[string]*TokenBucket)
	}
}

// Stop stops the cleanup routine
func (trl *TenantRateLimiter) Stop() {
	close(trl.stopCleanup)
}

// Allow checks if a chat message can be sent for the given tenant
func (trl *TenantRateLimiter) Allow(tenantID string) bool {
	trl.mu.Lock()
	bucket, exists := trl.limits[tenantID]
	if !exists {
		// New bucket: BurstSize tokens, refill at MessagesPerMinute/60 per second
		refillRate := float64(trl.config.MessagesPerMinute) / 60.0
		bucket = NewTokenBucket(float64(trl.config.BurstSize), refillRate)
		trl.limits[tenantID] = bucket
	}
	trl.mu.Unlock()

	return bucket.Allow()
}

// Limit returns remaining tokens for a tenant
func (trl *TenantRateLimiter) Limit(tenantID string) (remaining int, limit int) {
	trl.mu.RLock()
	bucket, exists := trl.limits[tenantID]
	trl.mu.RUnlock()

	if !exists {
		return trl.config.BurstSize, trl.config.BurstSize
	}
	return bucket.Remaining(), trl.config.BurstSize
}

// RateLimitMiddleware creates a Gin middleware limiting chat messages per
// tenant. Anonymous requests share the "anonymous" bucket.
func RateLimitMiddleware(limiter *TenantRateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader("X-Tenant-ID")
		if tenantID == "" {
			tenantID = "anonymous"
		}

		allowed := limiter.Allow(tenantID)
		remaining, limit := limiter.Limit(tenantID)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			logger.Warn("Rate limit exceeded", zap.String("tenant_id", tenantID))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please wait before sending another message.",
			})
			return
		}

		c.Next()
	}
}
