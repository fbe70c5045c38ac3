package handler

import (
	"context"
	"net/http"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/metrics"
	"github.com/fakhrymubarak/weather-widget/internal/middleware"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
	"github.com/fakhrymubarak/weather-widget/internal/service"
	"github.com/fakhrymubarak/weather-widget/internal/view"
)

// RouterDeps are the collaborators behind the HTTP surface. Generations and
// RedisPing stay nil when the stale guard is disabled.
type RouterDeps struct {
	SearchService service.SearchServiceInterface
	Generations   repository.GenerationRepository
	RedisPing     func(ctx context.Context) error
}

// NewRouter registers every route and wraps the searching ones in the rate limiter.
// Throttled HTML routes answer with the widget error state, /weather with JSON.
func NewRouter(deps RouterDeps) http.Handler {
	widget := NewWidgetHandler(deps.SearchService, deps.Generations)
	weather := NewWeatherHandler(widget.SearchService)
	health := &HealthHandler{Ping: deps.RedisPing}

	htmlLimit := middleware.RateLimitWith(widget.HandleThrottled)

	mux := http.NewServeMux()
	mux.Handle("/", htmlLimit(http.HandlerFunc(widget.HandlePage)))
	mux.Handle("GET /search", htmlLimit(http.HandlerFunc(widget.HandleSearch)))
	mux.Handle("/weather", middleware.RateLimitMiddleware(http.HandlerFunc(weather.HandleWeather)))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(view.StaticFS())))
	mux.HandleFunc("GET /healthz", health.HandleHealthz)
	mux.Handle("GET /metrics", metrics.Handler())

	var h http.Handler = mux
	h = middleware.SessionMiddleware(h)
	h = middleware.LoggingMiddleware(config.GetLogger().Named("http"))(h)
	return h
}
