package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/metrics"
	"github.com/fakhrymubarak/weather-widget/internal/middleware"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
	"github.com/fakhrymubarak/weather-widget/internal/service"
	"github.com/fakhrymubarak/weather-widget/internal/view"
	"go.uber.org/zap"
)

const pageTitle = "Weather"

// WidgetHandler serves the HTML page and the widget fragment swapped in by searches.
type WidgetHandler struct {
	SearchService service.SearchServiceInterface
	// Generations is nil when superseded searches are not discarded.
	Generations repository.GenerationRepository
	DefaultCity string
	logger      *zap.SugaredLogger
}

func NewWidgetHandler(svc service.SearchServiceInterface, generations ...repository.GenerationRepository) *WidgetHandler {
	if svc == nil {
		svc = service.NewSearchService(nil, nil)
	}
	var gens repository.GenerationRepository
	if len(generations) > 0 {
		gens = generations[0]
	}
	return &WidgetHandler{
		SearchService: svc,
		Generations:   gens,
		DefaultCity:   config.GetDefaultCity(),
		logger:        config.GetLogger().Named("widget"),
	}
}

// HandlePage renders the full page. Without ?city= it searches DefaultCity once,
// so the first paint already shows a result or an error.
func (h *WidgetHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	query := h.DefaultCity
	if r.URL.Query().Has("city") {
		query = r.URL.Query().Get("city")
	}

	widget := view.NewWidget(query)
	// A page load starts a new search too, so older in-flight fragments lose.
	h.begin(r.Context())
	h.SearchService.RunSearch(r.Context(), query, view.NewController(widget))

	var buf bytes.Buffer
	if err := view.RenderPage(&buf, &view.PageData{Title: pageTitle, Widget: widget}); err != nil {
		h.logger.Errorw("Render page failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HandleSearch renders the widget fragment for one search. When a newer search
// of the same session started meanwhile, it answers 204 and the page keeps
// whatever the newer search shows.
func (h *WidgetHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("city")
	ctx := r.Context()

	generation, guarded := h.begin(ctx)

	widget := view.NewWidget(query)
	h.SearchService.RunSearch(ctx, query, view.NewController(widget))

	if guarded && !h.isCurrent(ctx, generation) {
		metrics.IncSuperseded()
		h.logger.Debugw("Discarding superseded search", "query", query, "generation", generation)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := view.RenderWidget(&buf, widget); err != nil {
		h.logger.Errorw("Render widget failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HandleThrottled is the rate limiter's reply on the HTML routes. The message
// goes to the error region: /search answers 200 so the fragment is swapped in,
// and the page keeps 429 since browsers render it anyway.
func (h *WidgetHandler) HandleThrottled(w http.ResponseWriter, r *http.Request, scope, errMsg string) {
	query := r.URL.Query().Get("city")
	fragment := r.URL.Path == "/search"
	if !fragment && !r.URL.Query().Has("city") {
		query = h.DefaultCity
	}

	widget := view.NewWidget(query)
	view.NewController(widget).Render(model.Failure(errMsg))
	h.logger.Infow("Search throttled", "query", query, "scope", scope)

	var buf bytes.Buffer
	var err error
	if fragment {
		err = view.RenderWidget(&buf, widget)
	} else {
		err = view.RenderPage(&buf, &view.PageData{Title: pageTitle, Widget: widget})
	}
	if err != nil {
		h.logger.Errorw("Render throttled response failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", "60")
	if !fragment {
		w.WriteHeader(http.StatusTooManyRequests)
	}
	_, _ = w.Write(buf.Bytes())
}

// begin registers a new search for the session. guarded is false when the
// guard is off, the request has no session, or Redis is unreachable.
func (h *WidgetHandler) begin(ctx context.Context) (generation int64, guarded bool) {
	session := middleware.SessionID(ctx)
	if h.Generations == nil || session == "" {
		return 0, false
	}
	gen, err := h.Generations.Next(ctx, session)
	if err != nil {
		h.logger.Warnw("Generation counter unavailable, serving without stale guard", "error", err)
		return 0, false
	}
	return gen, true
}

func (h *WidgetHandler) isCurrent(ctx context.Context, generation int64) bool {
	current, err := h.Generations.IsCurrent(ctx, middleware.SessionID(ctx), generation)
	if err != nil {
		h.logger.Warnw("Generation check failed, keeping result", "error", err)
		return true
	}
	return current
}
