package interfaces

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"recruitment-tracker/infrastructure"
)

const requestIDHeader = "X-Request-ID"

// RegisterValidators adds the custom binding tags used by request types.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator is not go-playground/validator")
	}
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("failed to register notblank: %w", err)
	}
	return nil
}

// RequestID echoes the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestFields(c *gin.Context) logrus.Fields {
	return logrus.Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
}

func AccessLog(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := requestFields(c)
		fields["status"] = c.Writer.Status()
		fields["latency"] = time.Since(start).String()
		fields["client_ip"] = c.ClientIP()

		entry := log.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request completed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// CORS allows every origin, method and header.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		allowHeaders := c.GetHeader("Access-Control-Request-Headers")
		if allowHeaders == "" {
			allowHeaders = "*"
		}
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, "+requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RateLimit allows limit requests per window for each client IP. A nil
// limiter or a non-positive limit disables it. Limiter failures let the
// request through. Client IPs come from gin's ClientIP, so forwarded
// headers only count when the engine trusts the peer as a proxy.
func RateLimit(limiter infrastructure.Limiter, limit int, window time.Duration, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		quota, err := limiter.Take(c.Request.Context(), c.ClientIP()+":"+c.FullPath(), limit, window)
		if err != nil {
			log.WithError(err).WithFields(requestFields(c)).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
		if !quota.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(quota.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded", "code": codeRateLimited})
			return
		}
		c.Next()
	}
}
