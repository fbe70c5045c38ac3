package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Bursts come from config.yaml: 30 per IP and 10 per IP and city. Tokens refill
// at a rate per minute, so nothing refills within a unit test.

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestRateLimitMiddleware_GlobalBurst(t *testing.T) {
	ResetVisitors()
	SetParamKey("city")
	mw := RateLimitMiddleware(okHandler())
	ip := "1.2.3.4:1234"
	w := httptest.NewRecorder()

	// Distinct cities so only the global limiter is exhausted
	for i := 0; i < 30; i++ {
		param := fmt.Sprintf("city%d", i)
		req := httptest.NewRequest("GET", "/weather?city="+param, nil)
		req.RemoteAddr = ip
		mw.ServeHTTP(w, req)
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d on request %d", w.Result().StatusCode, i+1)
		}
		w = httptest.NewRecorder()
	}
	req := httptest.NewRequest("GET", "/weather?city=another", nil)
	req.RemoteAddr = ip
	mw.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d on request 31", w.Result().StatusCode)
	}
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	var resp map[string]interface{}
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if !strings.Contains(resp["error"].(string), "Rate limit exceeded") {
		t.Errorf("expected global limit error, got %v", resp["error"])
	}
	assert.Equal(t, "Too Many Requests (global limit)", resp["message"])
}

func TestRateLimitMiddleware_PerParamBurst(t *testing.T) {
	ResetVisitors()
	SetParamKey("city")
	mw := RateLimitMiddleware(okHandler())
	ip := "2.3.4.5:2345"
	w := httptest.NewRecorder()

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/weather?city=London", nil)
		req.RemoteAddr = ip
		mw.ServeHTTP(w, req)
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d on request %d", w.Result().StatusCode, i+1)
		}
		w = httptest.NewRecorder()
	}
	// Case and surrounding spaces do not open a new bucket
	req := httptest.NewRequest("GET", "/weather?city=+LONDON+", nil)
	req.RemoteAddr = ip
	mw.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d on request 11", w.Result().StatusCode)
	}
	var resp map[string]interface{}
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if !strings.Contains(resp["error"].(string), "per city") {
		t.Errorf("expected per-param limit error, got %v", resp["error"])
	}

	// Another client is unaffected
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/weather?city=London", nil)
	req.RemoteAddr = "9.9.9.9:1"
	mw.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getIP(req))

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", getIP(req))
}

func TestCleanupVisitors(t *testing.T) {
	ResetVisitors()
	getGlobalLimiter("1.1.1.1")
	getParamLimiter("1.1.1.1", "london")

	cleanupVisitors(time.Now(), time.Minute)
	assert.Len(t, globalVisitors, 1)
	assert.Len(t, paramVisitors, 1)

	cleanupVisitors(time.Now().Add(2*time.Minute), time.Minute)
	assert.Empty(t, globalVisitors)
	assert.Empty(t, paramVisitors)
}

func TestRateLimitWith_CustomResponder(t *testing.T) {
	ResetVisitors()
	SetParamKey("city")

	var gotScope, gotMsg string
	mw := RateLimitWith(func(w http.ResponseWriter, r *http.Request, scope, errMsg string) {
		gotScope, gotMsg = scope, errMsg
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("throttled"))
	})(okHandler())

	var w *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		w = httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/search?city=Oslo", nil)
		req.RemoteAddr = "3.4.5.6:1"
		mw.ServeHTTP(w, req)
	}

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "throttled", w.Body.String())
	assert.Equal(t, "per-param", gotScope)
	assert.Equal(t, "Rate limit exceeded: max 10 requests per minute per city per user/IP", gotMsg)
}
