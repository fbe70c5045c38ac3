package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/fakhrymubarak/weather-widget/internal/service"
)

type WeatherHandler struct {
	SearchService service.SearchServiceInterface
}

func NewWeatherHandler(svc ...service.SearchServiceInterface) *WeatherHandler {
	var searchService service.SearchServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		searchService = svc[0]
	} else {
		searchService = service.NewSearchService(nil, nil)
	}
	return &WeatherHandler{
		SearchService: searchService,
	}
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

// statusFor maps a search error to the JSON API status code.
func statusFor(err error) int {
	var (
		empty       model.EmptyInputError
		notFound    *model.NotFoundError
		unavailable *model.DataUnavailableError
		network     *model.NetworkError
	)
	switch {
	case errors.As(err, &empty):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &network):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleWeather answers GET /weather?city= with the current weather as JSON.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSONResponse(w, http.StatusMethodNotAllowed, model.ErrorResponse("Method not allowed"))
		return
	}

	report, err := h.SearchService.Lookup(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeJSONResponse(w, statusFor(err), model.ErrorResponse(err.Error()))
		return
	}

	writeJSONResponse(w, http.StatusOK, model.SuccessResponse(report))
}
