package middelware

import (
	"net/http"
	"strings"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware answers cross-origin requests from the browser frontend.
// Content-Disposition is exposed so the client can read the filename of CSV
// report downloads.
type CORSMiddleware struct {
	exact     map[string]bool
	wildcards []string
	allowAll  bool
}

// NewCORSMiddleware builds the middleware from the configured origin list.
// Entries are either exact origins, *.domain wildcards or a bare * allowing
// everything.
func NewCORSMiddleware(cfg *models.Config) *CORSMiddleware {
	m := &CORSMiddleware{exact: make(map[string]bool)}
	for _, origin := range cfg.CORSOrigins {
		switch {
		case origin == "*":
			m.allowAll = true
		case strings.HasPrefix(origin, "*."):
			m.wildcards = append(m.wildcards, origin[2:])
		default:
			m.exact[origin] = true
		}
	}
	return m
}

// CORS returns a gin.HandlerFunc for handling CORS
func (m *CORSMiddleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// The response depends on the Origin header either way, so caches
		// must not reuse it across origins.
		c.Header("Vary", "Origin")

		if origin != "" && m.originAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (m *CORSMiddleware) originAllowed(origin string) bool {
	if m.allowAll || m.exact[origin] {
		return true
	}
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	for _, domain := range m.wildcards {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
