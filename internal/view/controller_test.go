package view

import (
	"testing"

	"github.com/fakhrymubarak/weather-widget/internal/condition"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/stretchr/testify/assert"
)

// recordingSurface is a Widget that also counts writes.
type recordingSurface struct {
	Widget
	writes int
}

func (r *recordingSurface) Show(reg Region) { r.writes++; r.Widget.Show(reg) }
func (r *recordingSurface) Hide(reg Region) { r.writes++; r.Widget.Hide(reg) }

func londonResult() model.UIState {
	return model.Success(
		model.ResolvedLocation{Name: "London", Country: "United Kingdom", Latitude: 51.5, Longitude: -0.12},
		model.WeatherObservation{TemperatureCelsius: 15.2, ConditionCode: 3},
		condition.Classify(3),
	)
}

func assertOnly(t *testing.T, w *Widget, want Region) {
	t.Helper()
	for _, r := range regions {
		assert.Equal(t, r == want, w.Visible(r), "region %s", r)
	}
}

func TestController_Loading(t *testing.T) {
	w := NewWidget("")
	NewController(w).Render(model.Loading())
	assertOnly(t, w, RegionLoading)
}

func TestController_Error(t *testing.T) {
	w := NewWidget("Zzqqnowhere")
	NewController(w).Render(model.Failure("City not found"))
	assertOnly(t, w, RegionError)
	assert.Equal(t, "City not found", w.ErrorText)
}

func TestController_Result(t *testing.T) {
	w := NewWidget("London")
	NewController(w).Render(londonResult())

	assertOnly(t, w, RegionResult)
	assert.Equal(t, "London, United Kingdom", w.Content.Title)
	assert.Equal(t, "Temperature: 15.2°C", w.Content.Temperature)
	assert.Equal(t, "Weather: Cloudy", w.Content.Weather)
	assert.Equal(t, "/static/icons/clouds.svg", w.IconSrc)
	assert.Equal(t, "Cloudy", w.IconAlt)
}

func TestController_ResultWithoutCountry(t *testing.T) {
	w := NewWidget("Null Island")
	state := model.Success(model.ResolvedLocation{Name: "Null Island"}, model.WeatherObservation{TemperatureCelsius: 27}, condition.Classify(0))
	NewController(w).Render(state)

	assert.Equal(t, "Null Island", w.Content.Title)
	assert.Equal(t, "Temperature: 27.0°C", w.Content.Temperature)
	assert.Equal(t, "Weather: Sunny", w.Content.Weather)
}

func TestController_Idle(t *testing.T) {
	w := NewWidget("")
	c := NewController(w)
	c.Render(model.Loading())
	c.Render(model.Idle())
	assert.Equal(t, 0, w.VisibleCount())
}

func TestController_ExclusiveAcrossTransitions(t *testing.T) {
	w := NewWidget("")
	c := NewController(w)

	sequence := []model.UIState{
		model.Loading(),
		londonResult(),
		model.Loading(),
		model.Failure("Failed to fetch weather data"),
		model.Failure("Please enter a city or country."),
		model.Loading(),
		londonResult(),
	}
	for _, s := range sequence {
		c.Render(s)
		assert.Equal(t, 1, w.VisibleCount(), "after %s", s.Phase)
	}
}

func TestController_Idempotent(t *testing.T) {
	w := NewWidget("London")
	c := NewController(w)

	c.Render(londonResult())
	first := *w
	c.Render(londonResult())
	assert.Equal(t, first, *w)

	c.Render(model.Failure("City not found"))
	afterErr := *w
	c.Render(model.Failure("City not found"))
	assert.Equal(t, afterErr, *w)
}

func TestController_ErrorAfterResultHidesResult(t *testing.T) {
	rec := &recordingSurface{}
	c := NewController(rec)

	c.Render(londonResult())
	c.Render(model.Failure("City not found"))

	assert.False(t, rec.ResultVisible())
	assert.True(t, rec.ErrorVisible())
	assert.Positive(t, rec.writes)
}

func TestFormatCelsius(t *testing.T) {
	assert.Equal(t, "15.2°C", FormatCelsius(15.2))
	assert.Equal(t, "-3.5°C", FormatCelsius(-3.5))
	assert.Equal(t, "0.0°C", FormatCelsius(0))
	assert.Equal(t, "21.3°C", FormatCelsius(21.25000001))
}

func TestRegion_String(t *testing.T) {
	assert.Equal(t, "loading", RegionLoading.String())
	assert.Equal(t, "error", RegionError.String())
	assert.Equal(t, "result", RegionResult.String())
	assert.Equal(t, "unknown", Region(9).String())
}
