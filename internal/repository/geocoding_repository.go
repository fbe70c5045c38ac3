package repository

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"go.uber.org/zap"
)

const fetchCoordinatesFailed = "Failed to fetch coordinates"

// GeocodingRepository resolves free-text place names to coordinates.
type GeocodingRepository interface {
	Resolve(ctx context.Context, query string) (*model.ResolvedLocation, error)
}

// geocodingRepository implements GeocodingRepository against the Open-Meteo geocoding API
type geocodingRepository struct {
	httpClient *http.Client
	apiURL     string
	language   string
	logger     *zap.SugaredLogger
}

// NewGeocodingRepository creates a geocoding repository using the configured endpoint.
// An optional http.Client replaces http.DefaultClient.
func NewGeocodingRepository(httpClient ...*http.Client) GeocodingRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &geocodingRepository{
		httpClient: client,
		apiURL:     config.GetGeocodingAPIURL(),
		language:   config.GetGeocodingLanguage(),
		logger:     config.GetLogger().Named("geocoding"),
	}
}

// Resolve asks for a single match and returns it as ranked by the service.
func (r *geocodingRepository) Resolve(ctx context.Context, query string) (*model.ResolvedLocation, error) {
	rawURL := r.searchURL(query)

	var data model.GeocodingResponse
	status, err := getJSON(ctx, r.httpClient, "geocoding", rawURL, &data)
	if err != nil {
		netErr := &model.NetworkError{Message: fetchCoordinatesFailed, StatusCode: status, Err: err}
		r.logger.Warnw("Geocoding request failed", "query", query, "error", netErr.Detail())
		return nil, netErr
	}

	if len(data.Results) == 0 {
		r.logger.Infow("No geocoding match", "query", query)
		return nil, &model.NotFoundError{Query: query}
	}

	best := data.Results[0]
	r.logger.Debugw("Resolved location", "query", query, "name", best.Name, "country", best.Country,
		"latitude", best.Latitude, "longitude", best.Longitude)
	return &model.ResolvedLocation{
		Name:      best.Name,
		Country:   best.Country,
		Latitude:  best.Latitude,
		Longitude: best.Longitude,
	}, nil
}

func (r *geocodingRepository) searchURL(query string) string {
	params := url.Values{}
	params.Set("name", query)
	params.Set("count", "1")
	params.Set("language", r.language)
	params.Set("format", "json")
	// Spaces go out as %20 rather than '+'; a literal '+' is already %2B.
	return r.apiURL + "?" + strings.ReplaceAll(params.Encode(), "+", "%20")
}
