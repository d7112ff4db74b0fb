package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(router *gin.Engine, method, path, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitIsPerClientIP(t *testing.T) {
	router := gin.New()
	limiter := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(1), Burst: 2})
	router.Use(limiter.RateLimit())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	// First client exhausts its burst
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(router, http.MethodGet, "/ping", "10.0.0.1:1000").Code)

	// A different client still has its own bucket
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", "10.0.0.2:1000").Code)
}

func TestRequestIDMintedAndEchoed(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = c.GetString(ContextRequestID)
		c.Status(http.StatusOK)
	})

	w := perform(router, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(requestIDHeader))

	// A caller-supplied id is kept as-is
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "caller-id-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "caller-id-123", w.Header().Get(requestIDHeader))
	assert.Equal(t, "caller-id-123", seen)
}

func TestTimeoutRespondsGatewayTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(20 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
		case <-time.After(time.Second):
		}
	})
	router.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusGatewayTimeout, perform(router, http.MethodGet, "/slow", "").Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/fast", "").Code)
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("unexpected") })

	w := perform(router, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
