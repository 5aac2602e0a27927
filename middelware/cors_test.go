package middelware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	m := NewCORSMiddleware(&models.Config{CORSOrigins: origins})
	r.Use(m.CORS())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORSAllowedOrigin(t *testing.T) {
	r := corsRouter([]string{"https://inventory.example.com"})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://inventory.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://inventory.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestCORSDisallowedOrigin(t *testing.T) {
	r := corsRouter([]string{"https://inventory.example.com"})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Request still served, but without the allow header the browser blocks it
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardSubdomain(t *testing.T) {
	r := corsRouter([]string{"*.example.com"})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowAll(t *testing.T) {
	r := corsRouter([]string{"*"})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://anywhere.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://anywhere.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	r := corsRouter([]string{"https://inventory.example.com"})

	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "https://inventory.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCORSExposesContentDisposition(t *testing.T) {
	// CSV report downloads carry their filename in Content-Disposition; the
	// browser client can only read it when the header is exposed
	r := corsRouter([]string{"*"})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
}
