package model

import "github.com/fakhrymubarak/weather-widget/internal/condition"

// Phase is the mutually exclusive display mode of the widget.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseResult:
		return "result"
	default:
		return "idle"
	}
}

// UIState is one widget state. Build it with Idle, Loading, Failure or Success;
// fields that do not belong to the phase are left zero.
type UIState struct {
	Phase    Phase
	Message  string
	Location ResolvedLocation
	Weather  WeatherObservation
	Category condition.Category
}

func Idle() UIState { return UIState{Phase: PhaseIdle} }

func Loading() UIState { return UIState{Phase: PhaseLoading} }

func Failure(msg string) UIState { return UIState{Phase: PhaseError, Message: msg} }

func Success(loc ResolvedLocation, obs WeatherObservation, cat condition.Category) UIState {
	return UIState{Phase: PhaseResult, Location: loc, Weather: obs, Category: cat}
}

// Report converts a result state into its JSON form. ok is false for any other phase.
func (s UIState) Report() (report *WeatherReport, ok bool) {
	if s.Phase != PhaseResult {
		return nil, false
	}
	return &WeatherReport{
		Location:      s.Location.Name,
		Country:       s.Location.Country,
		Latitude:      s.Location.Latitude,
		Longitude:     s.Location.Longitude,
		Temperature:   s.Weather.TemperatureCelsius,
		ConditionCode: s.Weather.ConditionCode,
		Condition:     s.Category.Kind.String(),
		Description:   s.Category.Label,
		Icon:          s.Category.Icon,
		WindSpeed:     s.Weather.WindSpeed,
		WindDirection: s.Weather.WindDirection,
		IsDay:         s.Weather.IsDay,
		ObservedAt:    s.Weather.Time,
	}, true
}
