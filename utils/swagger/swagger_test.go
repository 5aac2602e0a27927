package swagger

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SwaggerTestSuite defines a test suite for the documentation page handler
type SwaggerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *SwaggerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
}

func (suite *SwaggerTestSuite) render(config SwaggerConfig) *httptest.ResponseRecorder {
	suite.router.GET("/swagger", ServeSwaggerUI(config))

	req, err := http.NewRequest("GET", "/swagger", nil)
	require.NoError(suite.T(), err)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// TestServeSwaggerUI tests rendering with a full configuration
func (suite *SwaggerTestSuite) TestServeSwaggerUI() {
	w := suite.render(SwaggerConfig{
		Title:         "Test API",
		SwaggerDocURL: "/swagger/doc.json",
		AuthURL:       "/api/v1/auth/login",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(suite.T(), body, "Test API")
	// URLs land inside JavaScript strings, where html/template escapes slashes
	assert.Contains(suite.T(), body, `url: '\/swagger\/doc.json'`)
	assert.Contains(suite.T(), body, `window.AUTH_URL = '\/api\/v1\/auth\/login'`)
	assert.Contains(suite.T(), body, "swagger-ui-bundle.js")
	assert.Contains(suite.T(), body, "preauthorizeApiKey")
}

// TestServeSwaggerUIDefaults tests that an empty config falls back to the
// routes this API serves
func (suite *SwaggerTestSuite) TestServeSwaggerUIDefaults() {
	w := suite.render(SwaggerConfig{})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	body := w.Body.String()
	// The ampersand in the default title is HTML-escaped
	assert.Contains(suite.T(), body, "Inventory &amp; Maintenance API")
	assert.Contains(suite.T(), body, `url: '\/swagger\/doc.json'`)
	assert.Contains(suite.T(), body, `window.AUTH_URL = '\/api\/v1\/auth\/login'`)
}

// TestServeSwaggerUIPartialConfig tests that unset fields keep their defaults
func (suite *SwaggerTestSuite) TestServeSwaggerUIPartialConfig() {
	w := suite.render(SwaggerConfig{Title: "Custom Title"})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(suite.T(), body, "Custom Title")
	assert.Contains(suite.T(), body, `url: '\/swagger\/doc.json'`)
	assert.Contains(suite.T(), body, `window.AUTH_URL = '\/api\/v1\/auth\/login'`)
}

// TestServeSwaggerUIHTMLStructure tests the skeleton of the rendered page
func (suite *SwaggerTestSuite) TestServeSwaggerUIHTMLStructure() {
	w := suite.render(SwaggerConfig{Title: "Test API"})

	body := w.Body.String()
	assert.Contains(suite.T(), body, "<!DOCTYPE html>")
	assert.Contains(suite.T(), body, `<html lang="en">`)
	assert.Contains(suite.T(), body, `<div id="swagger-ui">`)
	assert.Contains(suite.T(), body, "</html>")

	assert.Contains(suite.T(), body, "swagger-ui-bundle.css")
	assert.Contains(suite.T(), body, "swagger-ui-bundle.js")
	assert.Contains(suite.T(), body, "swagger-ui-standalone-preset.js")
}

// TestServeSwaggerUISigninPanel tests the sign-in panel wiring
func (suite *SwaggerTestSuite) TestServeSwaggerUISigninPanel() {
	w := suite.render(SwaggerConfig{})

	body := w.Body.String()
	assert.Contains(suite.T(), body, `id="signin-email"`)
	assert.Contains(suite.T(), body, `id="signin-password"`)
	assert.Contains(suite.T(), body, "window.signIn")
	assert.Contains(suite.T(), body, "access_token")
	assert.Contains(suite.T(), body, "'BearerAuth'")
}

// Run the test suite
func TestSwaggerTestSuite(t *testing.T) {
	suite.Run(t, new(SwaggerTestSuite))
}

// Standalone tests

func TestSwaggerTemplateExecution(t *testing.T) {
	tmpl, err := template.New("test").Parse(swaggerHTML)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, SwaggerConfig{
		Title:         "Direct Execution",
		SwaggerDocURL: "/direct/doc.json",
		AuthURL:       "/direct/auth",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Direct Execution")
}

func TestSwaggerTitleEscaping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", ServeSwaggerUI(SwaggerConfig{
		Title:         "API & Documentation <test>",
		SwaggerDocURL: "/swagger/doc.json",
		AuthURL:       "/api/v1/auth/login",
	}))

	req, err := http.NewRequest("GET", "/test", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "API &amp; Documentation &lt;test&gt;")
}

func TestSwaggerConcurrentRendering(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", ServeSwaggerUI(SwaggerConfig{Title: "Concurrent Test"}))

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			req, err := http.NewRequest("GET", "/test", nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "Concurrent Test")
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
