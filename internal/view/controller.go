package view

import (
	"strconv"

	"github.com/fakhrymubarak/weather-widget/internal/model"
)

// Controller is the only writer to a Surface. Each Render leaves at most one
// region visible, and rendering the same state twice leaves the same display.
type Controller struct {
	surface Surface
}

func NewController(s Surface) *Controller {
	return &Controller{surface: s}
}

// Render implements service.Renderer.
func (c *Controller) Render(state model.UIState) {
	switch state.Phase {
	case model.PhaseLoading:
		c.only(RegionLoading)
	case model.PhaseError:
		c.surface.SetErrorText(state.Message)
		c.only(RegionError)
	case model.PhaseResult:
		c.surface.SetContent(ResultContent{
			Title:       state.Location.DisplayName(),
			Temperature: "Temperature: " + FormatCelsius(state.Weather.TemperatureCelsius),
			Weather:     "Weather: " + state.Category.Label,
		})
		c.surface.SetIcon(state.Category.Icon, state.Category.Label)
		c.only(RegionResult)
	default:
		for _, r := range regions {
			c.surface.Hide(r)
		}
	}
}

// only hides the other regions before showing visible.
func (c *Controller) only(visible Region) {
	for _, r := range regions {
		if r != visible {
			c.surface.Hide(r)
		}
	}
	c.surface.Show(visible)
}

// FormatCelsius renders a temperature with one decimal place, e.g. "15.2°C".
func FormatCelsius(t float64) string {
	return strconv.FormatFloat(t, 'f', 1, 64) + "°C"
}
