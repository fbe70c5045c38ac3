package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeatherHandler(t *testing.T) {
	handler := NewWeatherHandler()
	if handler == nil {
		t.Fatal("Expected handler to be created")
	}
	if handler.SearchService == nil {
		t.Error("Expected search service to be initialized")
	}
}

func TestWeatherHandler_HandleWeather(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		city           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Successful weather request",
			method:         http.MethodGet,
			city:           "London",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing city parameter",
			method:         http.MethodGet,
			city:           "",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Please enter a city or country.",
		},
		{
			name:           "Blank city parameter",
			method:         http.MethodGet,
			city:           "%20%20",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Please enter a city or country.",
		},
		{
			name:           "Unknown city",
			method:         http.MethodGet,
			city:           "Atlantis",
			expectedStatus: http.StatusNotFound,
			expectedError:  "City not found",
		},
		{
			name:           "Upstream failure",
			method:         http.MethodGet,
			city:           "Offline",
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Failed to fetch coordinates",
		},
		{
			name:           "No current weather",
			method:         http.MethodGet,
			city:           "Nowhere",
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "No weather data available",
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			city:           "London",
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewWeatherHandler(newMockSearch())
			req := httptest.NewRequest(tt.method, "/weather?city="+tt.city, nil)
			rr := httptest.NewRecorder()

			handler.HandleWeather(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp map[string]interface{}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			if tt.expectedError != "" {
				assert.Equal(t, "Error", resp["message"])
				assert.Equal(t, tt.expectedError, resp["error"])
				return
			}
			assert.Equal(t, "Success", resp["message"])
			data := resp["data"].(map[string]interface{})
			assert.Equal(t, "London", data["location"])
			assert.Equal(t, "United Kingdom", data["country"])
			assert.Equal(t, 15.0, data["temperature"])
			assert.Equal(t, "rainy", data["condition"])
			assert.Equal(t, "Rainy", data["description"])
			assert.Equal(t, "/static/icons/rain.svg", data["icon"])
		})
	}

	t.Run("Allow header on 405", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewWeatherHandler(newMockSearch()).HandleWeather(rr, httptest.NewRequest(http.MethodPut, "/weather", nil))
		assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(model.EmptyInputError{}))
	assert.Equal(t, http.StatusNotFound, statusFor(&model.NotFoundError{}))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(&model.DataUnavailableError{}))
	assert.Equal(t, http.StatusBadGateway, statusFor(&model.NetworkError{Message: "Failed to fetch weather data", StatusCode: 500}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
