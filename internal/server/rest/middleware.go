package rest

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/server/auth"
	"github.com/dmitrijs2005/secondbrain/internal/server/metrics"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const userIDKey = "userID"

// authGuard admits requests carrying a valid bearer token of an existing
// user and stores the user id in the gin context.
func (s *Server) authGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			s.unauthorized(c, "Access denied. No token provided.")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.unauthorized(c, "Invalid token.")
			return
		}

		exists, err := s.deps.Users.Exists(c.Request.Context(), userID)
		if err != nil {
			s.fail(c, err, nil)
			return
		}
		if !exists {
			s.unauthorized(c, "User does not exist")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func (s *Server) unauthorized(c *gin.Context, msg string) {
	metrics.RequestErrors.WithLabelValues(strconv.Itoa(http.StatusUnauthorized)).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
}

// callerID is the authenticated user. Only valid behind authGuard.
func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// rateLimit applies a token bucket per client IP. Limiters live in an
// expiring LRU so idle clients are forgotten.
func rateLimit(interval time.Duration, maxBurst int, cacheSize int, ttl time.Duration) gin.HandlerFunc {
	cache := expirable.NewLRU[string, *rate.Limiter](cacheSize, nil, ttl)

	getLimiter := func(remoteAddr string) *rate.Limiter {
		limiter, exists := cache.Get(remoteAddr)
		if !exists {
			limiter = rate.NewLimiter(rate.Every(interval), maxBurst)
			cache.Add(remoteAddr, limiter)
		}
		return limiter
	}

	return func(c *gin.Context) {
		limiter := getLimiter(c.ClientIP())

		reservation := limiter.Reserve()
		if !reservation.OK() {
			metrics.RateLimitRejected.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": http.StatusText(http.StatusTooManyRequests)})
			return
		}

		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			metrics.RateLimitRejected.Inc()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": http.StatusText(http.StatusTooManyRequests)})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxBurst))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%.0f", math.Floor(limiter.Tokens())))

		c.Next()
	}
}
