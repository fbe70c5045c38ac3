package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/condition"
	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/metrics"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
	"go.uber.org/zap"
)

// Renderer receives every UI state transition of a search.
type Renderer interface {
	Render(state model.UIState)
}

// SearchServiceInterface defines the interface for weather searches
type SearchServiceInterface interface {
	RunSearch(ctx context.Context, rawInput string, view Renderer) model.UIState
	Lookup(ctx context.Context, rawInput string) (*model.WeatherReport, error)
}

// SearchService chains geocoding, the current weather fetch and classification.
type SearchService struct {
	Geocoder repository.GeocodingRepository
	Weather  repository.WeatherRepository
	logger   *zap.SugaredLogger
}

// NewSearchService creates a service. Nil repositories are replaced with the
// configured Open-Meteo implementations.
func NewSearchService(geocoder repository.GeocodingRepository, weather repository.WeatherRepository) *SearchService {
	if geocoder == nil {
		geocoder = repository.NewGeocodingRepository()
	}
	if weather == nil {
		weather = repository.NewWeatherRepository()
	}
	return &SearchService{
		Geocoder: geocoder,
		Weather:  weather,
		logger:   config.GetLogger().Named("search"),
	}
}

// RunSearch drives view through Loading and then Error or Result, and returns
// the last state rendered. Blank input goes straight to Error without any request.
func (s *SearchService) RunSearch(ctx context.Context, rawInput string, view Renderer) model.UIState {
	start := time.Now()
	query := strings.TrimSpace(rawInput)
	if query == "" {
		state := model.Failure(model.EmptyInputError{}.Error())
		view.Render(state)
		s.finish(query, model.EmptyInputError{}, start)
		return state
	}

	view.Render(model.Loading())

	state, err := s.search(ctx, query)
	if err != nil {
		state = model.Failure(err.Error())
	}
	view.Render(state)
	s.finish(query, err, start)
	return state
}

// Lookup runs the same pipeline as RunSearch without a view.
func (s *SearchService) Lookup(ctx context.Context, rawInput string) (*model.WeatherReport, error) {
	start := time.Now()
	query := strings.TrimSpace(rawInput)
	if query == "" {
		s.finish(query, model.EmptyInputError{}, start)
		return nil, model.EmptyInputError{}
	}

	state, err := s.search(ctx, query)
	s.finish(query, err, start)
	if err != nil {
		return nil, err
	}
	report, _ := state.Report()
	return report, nil
}

// search resolves, then fetches. The fetch needs the resolved coordinates, so the two never overlap.
func (s *SearchService) search(ctx context.Context, query string) (model.UIState, error) {
	loc, err := s.Geocoder.Resolve(ctx, query)
	if err != nil {
		return model.UIState{}, err
	}

	obs, err := s.Weather.FetchCurrent(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return model.UIState{}, err
	}

	return model.Success(*loc, *obs, condition.Classify(obs.ConditionCode)), nil
}

func (s *SearchService) finish(query string, err error, start time.Time) {
	elapsed := time.Since(start)
	outcome := Outcome(err)
	metrics.ObserveSearch(outcome, elapsed)
	if err != nil {
		s.logger.Infow("Search failed", "query", query, "outcome", outcome, "error", err, "duration", elapsed)
		return
	}
	s.logger.Infow("Search completed", "query", query, "duration", elapsed)
}

// Outcome names the result of a search for logs and metrics.
func Outcome(err error) string {
	var (
		empty       model.EmptyInputError
		network     *model.NetworkError
		notFound    *model.NotFoundError
		unavailable *model.DataUnavailableError
	)
	switch {
	case err == nil:
		return "result"
	case errors.As(err, &empty):
		return "empty_input"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &unavailable):
		return "data_unavailable"
	case errors.As(err, &network):
		return "network_error"
	default:
		return "error"
	}
}
