package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"golang.org/x/time/rate"
)

// paramKey is the query parameter key used for per-param rate limiting (default: "city").
var paramKey = "city"

// SetParamKey sets the query parameter key for per-param rate limiting. Used primarily for testing.
func SetParamKey(key string) {
	paramKey = key
}

// visitor holds a rate limiter and the last time it was used.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	// globalVisitors maps IP addresses to their limiter.
	globalVisitors = make(map[string]*visitor) // key: ip
	// paramVisitors maps IP addresses and parameter values to their limiter.
	paramVisitors = make(map[string]map[string]*visitor) // key: ip -> paramValue -> visitor
	muGlobal      sync.Mutex
	muParam       sync.Mutex
)

// perMinute converts a requests-per-minute setting into a token rate.
func perMinute(n float64) rate.Limit {
	return rate.Limit(n / 60.0)
}

// getGlobalLimiter returns the rate limiter for the given IP address, creating one if it does not exist.
func getGlobalLimiter(ip string) *rate.Limiter {
	muGlobal.Lock()
	defer muGlobal.Unlock()
	v, exists := globalVisitors[ip]
	if !exists {
		r, burst := config.GetGlobalRateLimiterConfig()
		limiter := rate.NewLimiter(perMinute(r), burst)
		globalVisitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// getParamLimiter returns the rate limiter for the given IP address and parameter value, creating one if it does not exist.
func getParamLimiter(ip, param string) *rate.Limiter {
	muParam.Lock()
	defer muParam.Unlock()
	if _, ok := paramVisitors[ip]; !ok {
		paramVisitors[ip] = make(map[string]*visitor)
	}
	v, exists := paramVisitors[ip][param]
	if !exists {
		r, burst := config.GetParamRateLimiterConfig()
		limiter := rate.NewLimiter(perMinute(r), burst)
		paramVisitors[ip][param] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes entries not seen within the cleanup timeout.
func cleanupVisitors(now time.Time, timeout time.Duration) {
	muGlobal.Lock()
	for ip, v := range globalVisitors {
		if now.Sub(v.lastSeen) > timeout {
			delete(globalVisitors, ip)
		}
	}
	muGlobal.Unlock()

	muParam.Lock()
	for ip, paramMap := range paramVisitors {
		for param, v := range paramMap {
			if now.Sub(v.lastSeen) > timeout {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(paramVisitors, ip)
		}
	}
	muParam.Unlock()
}

// StartRateLimiterCleanup sweeps stale visitors once a minute until done is closed.
func StartRateLimiterCleanup(done <-chan struct{}) {
	timeout := config.GetRateLimiterCleanupTimeout()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				cleanupVisitors(now, timeout)
			}
		}
	}()
}

// ResetVisitors clears all visitor states for both global and per-param limiters. Used primarily for testing.
func ResetVisitors() {
	muGlobal.Lock()
	for k := range globalVisitors {
		delete(globalVisitors, k)
	}
	muGlobal.Unlock()
	muParam.Lock()
	for k := range paramVisitors {
		delete(paramVisitors, k)
	}
	muParam.Unlock()
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

// getParam extracts the configured query parameter, normalised so "London" and " london" share a bucket.
func getParam(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.URL.Query().Get(paramKey)))
}

// LimitResponder writes the reply for a throttled request. errMsg is the user-facing
// reason; scope is "global" or "per-param".
type LimitResponder func(w http.ResponseWriter, r *http.Request, scope, errMsg string)

// WriteJSONTooManyRequests is the LimitResponder for JSON routes: a 429 with a model.Response body.
func WriteJSONTooManyRequests(w http.ResponseWriter, r *http.Request, scope, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	resp := model.ErrorResponse(errMsg)
	resp.Message = fmt.Sprintf("Too Many Requests (%s limit)", scope)
	_ = json.NewEncoder(w).Encode(resp)
}

// RateLimitMiddleware returns an HTTP middleware that enforces global and per-parameter rate limiting.
// If the rate limit is exceeded, it responds with a 429 status and a JSON error message.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return RateLimitWith(WriteJSONTooManyRequests)(next)
}

// RateLimitWith is RateLimitMiddleware with the throttled reply left to respond.
func RateLimitWith(respond LimitResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIP(r)
			param := getParam(r)
			if param == "" {
				// If param is missing, treat as a single bucket
				param = "__none__"
			}
			globalLimiter := getGlobalLimiter(ip)
			paramLimiter := getParamLimiter(ip, param)
			if !globalLimiter.Allow() {
				globalRate, _ := config.GetGlobalRateLimiterConfig()
				respond(w, r, "global",
					fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", globalRate))
				return
			}
			if !paramLimiter.Allow() {
				paramRate, _ := config.GetParamRateLimiterConfig()
				respond(w, r, "per-param",
					fmt.Sprintf("Rate limit exceeded: max %g requests per minute per city per user/IP", paramRate))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
