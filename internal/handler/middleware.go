package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"linkbio/internal/config"
	"linkbio/internal/domain"
	"linkbio/internal/plan"
	"linkbio/pkg/logger"
)

// Context keys set by AuthMiddleware
const (
	ctxCallerID     = "callerID"
	ctxCapabilities = "capabilities"
)

// LoggerMiddleware logs HTTP requests with structured logging
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log.Info("HTTP request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
			"user_agent", c.Request.UserAgent(),
			"caller_id", c.GetString(ctxCallerID),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}

// CORSMiddleware allows the configured origins, or any origin in development
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		dev := cfg.IsDevelopment()
		corsCfg.AllowOriginFunc = func(string) bool { return dev }
	}

	return cors.New(corsCfg)
}

// SecurityHeadersMiddleware adds security-related headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}

// ipLimiters holds one token bucket per client IP
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware implements IP-based rate limiting
func RateLimitMiddleware(requestsPerMinute int) gin.HandlerFunc {
	limiters := &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    requestsPerMinute,
	}

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests, please try again later",
				Code:    http.StatusTooManyRequests,
			})
			return
		}

		c.Next()
	}
}

// AccessClaims are issued by the identity provider. Subject is the owner id.
type AccessClaims struct {
	Plan     string   `json:"plan"`
	Features []string `json:"features"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the bearer token and stores the caller id and
// resolved capabilities in the request context
func AuthMiddleware(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			abortUnauthenticated(c, "Missing bearer token")
			return
		}

		claims := &AccessClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid || claims.Subject == "" {
			log.Debug("Rejected access token", "error", err, "ip", c.ClientIP())
			abortUnauthenticated(c, "Invalid or expired token")
			return
		}

		caps := plan.Resolve(claims.Plan, claims.Features)
		log.Debug("Authenticated request", "caller", claims.Subject, "plan", claims.Plan, "capabilities", caps.List())

		c.Set(ctxCallerID, claims.Subject)
		c.Set(ctxCapabilities, caps)
		c.Next()
	}
}

// RequireCapability rejects callers whose plan lacks the capability
func RequireCapability(capability plan.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !capabilities(c).Has(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, domain.ErrorResponse{
				Error:   "feature_locked",
				Message: "Upgrade your plan to access " + string(capability),
				Code:    http.StatusForbidden,
			})
			return
		}
		c.Next()
	}
}

// TimeoutMiddleware sets a timeout for request processing
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, domain.ErrorResponse{
		Error:   "unauthenticated",
		Message: message,
		Code:    http.StatusUnauthorized,
	})
}

// callerID returns the authenticated owner id
func callerID(c *gin.Context) string {
	return c.GetString(ctxCallerID)
}

// capabilities returns the caller's capabilities, empty when unauthenticated
func capabilities(c *gin.Context) plan.Capabilities {
	if v, ok := c.Get(ctxCapabilities); ok {
		if caps, ok := v.(plan.Capabilities); ok {
			return caps
		}
	}
	return plan.Resolve(plan.TierFree, nil)
}
