package middelware

import (
	"strconv"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/metrics"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware provides request logging and HTTP metrics
type LoggingMiddleware struct {
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewLoggingMiddleware creates a new logging middleware. The metrics argument
// may be nil, in which case only logging happens.
func NewLoggingMiddleware(log logger.Logger, m *metrics.Metrics) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger:  log,
		metrics: m,
	}
}

// RequestLogger returns a gin.HandlerFunc for logging HTTP requests
func (m *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			// Custom log format
			m.logger.Infof("[%s] %s %s %d %s %s %s",
				param.TimeStamp.Format("2006-01-02 15:04:05"),
				param.ClientIP,
				param.Method,
				param.StatusCode,
				param.Latency,
				param.Path,
				param.ErrorMessage,
			)
			return ""
		},
		SkipPaths: []string{"/health", "/metrics"}, // Skip health checks
	})
}

// StructuredLogger provides structured logging for requests and feeds the
// prometheus request counter and latency histogram
func (m *LoggingMiddleware) StructuredLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)

		if m.metrics != nil && path != "/metrics" && path != "/health" {
			// Use the route template so path parameters do not explode
			// the label cardinality
			route := c.FullPath()
			if route == "" {
				route = path
			}
			m.metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
			m.metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())
		}

		// Get user ID from context if available
		userID, _ := c.Get("user_id")

		// Log request details
		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"query":      raw,
			"status":     c.Writer.Status(),
			"latency":    latency.String(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		if userID != nil {
			fields["user_id"] = userID
		}

		// Add error details if any
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		// Log based on status code
		entry := m.logger.WithFields(fields)
		if c.Writer.Status() >= 500 {
			entry.Error("HTTP request failed")
		} else if c.Writer.Status() >= 400 {
			entry.Warn("HTTP request rejected")
		} else {
			entry.Info("HTTP request completed")
		}
	}
}

// Recovery middleware with logging
func (m *LoggingMiddleware) Recovery() gin.HandlerFunc {
	return gin.RecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered interface{}) {
		// Log the panic
		m.logger.Errorf("Panic recovered: %v", recovered)

		// Return 500 status
		c.JSON(500, gin.H{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred",
		})
	})
}
