package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestAllowEnforcesBurst(t *testing.T) {
	l := NewAddrRateLimiter(rate.Limit(1), 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1:500"), "request %d within burst", i)
	}
	assert.False(t, l.Allow("10.0.0.1:500"), "burst exhausted")

	// a different address has its own bucket
	assert.True(t, l.Allow("10.0.0.2:500"))
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := NewAddrRateLimiter(rate.Limit(1), 1)

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	mkReq := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.5:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, mkReq().Code)
	assert.Equal(t, http.StatusTooManyRequests, mkReq().Code)
}
