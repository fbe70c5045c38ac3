package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"go.uber.org/zap"
)

const fetchWeatherFailed = "Failed to fetch weather data"

// WeatherRepository defines the interface for current weather lookups
type WeatherRepository interface {
	FetchCurrent(ctx context.Context, lat, lon float64) (*model.WeatherObservation, error)
}

// weatherRepository implements WeatherRepository against the Open-Meteo forecast API
type weatherRepository struct {
	httpClient *http.Client
	apiURL     string
	logger     *zap.SugaredLogger
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(httpClient ...*http.Client) WeatherRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &weatherRepository{
		httpClient: client,
		apiURL:     config.GetForecastAPIURL(),
		logger:     config.GetLogger().Named("forecast"),
	}
}

// FetchCurrent requests only the current_weather block for the coordinates.
func (r *weatherRepository) FetchCurrent(ctx context.Context, lat, lon float64) (*model.WeatherObservation, error) {
	var data model.ForecastResponse
	status, err := getJSON(ctx, r.httpClient, "forecast", r.forecastURL(lat, lon), &data)
	if err != nil {
		netErr := &model.NetworkError{Message: fetchWeatherFailed, StatusCode: status, Err: err}
		r.logger.Warnw("Forecast request failed", "latitude", lat, "longitude", lon, "error", netErr.Detail())
		return nil, netErr
	}

	if data.CurrentWeather == nil {
		r.logger.Infow("Forecast response has no current weather", "latitude", lat, "longitude", lon)
		return nil, &model.DataUnavailableError{Latitude: lat, Longitude: lon}
	}

	cw := data.CurrentWeather
	return &model.WeatherObservation{
		TemperatureCelsius: cw.Temperature,
		ConditionCode:      cw.WeatherCode,
		WindSpeed:          cw.WindSpeed,
		WindDirection:      cw.WindDirection,
		IsDay:              cw.IsDay == 1,
		Time:               cw.Time,
	}, nil
}

func (r *weatherRepository) forecastURL(lat, lon float64) string {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")
	return r.apiURL + "?" + params.Encode()
}
