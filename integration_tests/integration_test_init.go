package integrationtest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/handler"
	"github.com/fakhrymubarak/weather-widget/internal/redis"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
	"github.com/fakhrymubarak/weather-widget/internal/service"
	"github.com/spf13/viper"
)

const (
	geocodingPath = "/v1/search"
	forecastPath  = "/v1/forecast"
)

// MockResponse is a canned upstream reply.
type MockResponse struct {
	Code int
	Body string
}

// openMeteoMock stands in for both Open-Meteo endpoints. Replies are keyed by
// the geocoding "name" and the forecast "latitude" query parameters.
type openMeteoMock struct {
	mu        sync.Mutex
	geocoding map[string]MockResponse
	forecast  map[string]MockResponse
	requests  []string
	// hold blocks geocoding replies for the given name until the channel is closed.
	hold    map[string]chan struct{}
	arrived chan string
}

func newOpenMeteoMock() *openMeteoMock {
	return &openMeteoMock{
		geocoding: map[string]MockResponse{},
		forecast:  map[string]MockResponse{},
		hold:      map[string]chan struct{}{},
		arrived:   make(chan string, 8),
	}
}

func (m *openMeteoMock) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.hold = map[string]chan struct{}{}
}

func (m *openMeteoMock) requestLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

func (m *openMeteoMock) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.Path+"?"+r.URL.RawQuery)
	var (
		resp MockResponse
		ok   bool
		wait chan struct{}
	)
	switch r.URL.Path {
	case geocodingPath:
		name := r.URL.Query().Get("name")
		resp, ok = m.geocoding[name]
		wait = m.hold[name]
	case forecastPath:
		resp, ok = m.forecast[r.URL.Query().Get("latitude")]
	}
	m.mu.Unlock()

	if wait != nil {
		m.arrived <- r.URL.Query().Get("name")
		<-wait
	}
	if !ok {
		resp = MockResponse{Code: http.StatusNotFound, Body: `{"error":true}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	_, _ = w.Write([]byte(resp.Body))
}

// createMockRedisServer starts an in-memory Redis and points the shared client at it.
func createMockRedisServer() *miniredis.Miniredis {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	viper.Set("redis.addr", mr.Addr())
	redis.ResetClientForTest()
	return mr
}

// setupIntegrationTestServer serves the full router against the Open-Meteo mock.
func setupIntegrationTestServer(upstream *httptest.Server, staleGuard bool) *httptest.Server {
	viper.Set("geocoding.api_url", upstream.URL+geocodingPath)
	viper.Set("forecast.api_url", upstream.URL+forecastPath)
	viper.Set("search.stale_guard", staleGuard)

	deps := handler.RouterDeps{
		SearchService: service.NewSearchService(
			repository.NewGeocodingRepository(upstream.Client()),
			repository.NewWeatherRepository(upstream.Client()),
		),
	}
	if config.IsStaleGuardEnabled() {
		deps.Generations = repository.NewGenerationRepository()
		deps.RedisPing = redis.Ping
	}
	return httptest.NewServer(handler.NewRouter(deps))
}
