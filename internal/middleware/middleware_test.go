package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCORSAllowAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/health", nil)
	c.Request.Header.Set("Origin", "https://example.com")

	CORS(nil)(c)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowlist(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := CORS([]string{"https://allowed.example.com"})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/health", nil)
	c.Request.Header.Set("Origin", "https://allowed.example.com")
	handler(c)
	require.Equal(t, "https://allowed.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(rec2)
	c2.Request = httptest.NewRequest("GET", "/api/v1/health", nil)
	c2.Request.Header.Set("Origin", "https://other.example.com")
	handler(c2)
	require.Empty(t, rec2.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("OPTIONS", "/api/v1/query", nil)

	CORS(nil)(c)
	require.True(t, c.IsAborted())
	require.Equal(t, 204, rec.Code)
}

func TestRequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/health", nil)

	RequestID()(c)
	require.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	id, ok := c.Get("request_id")
	require.True(t, ok)
	require.NotEmpty(t, id)
}

func TestRequestIDHonorsClientValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/health", nil)
	c.Request.Header.Set(HeaderRequestID, "req-123")

	RequestID()(c)
	require.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
}
