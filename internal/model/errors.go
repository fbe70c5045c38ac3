package model

import "fmt"

// EmptyInputErrorMessage is shown when a search is triggered with nothing to look up.
const EmptyInputErrorMessage = "Please enter a city or country."

// EmptyInputError rejects a blank query before any network call is made.
type EmptyInputError struct{}

func (EmptyInputError) Error() string { return EmptyInputErrorMessage }

// NetworkError reports a transport failure or a non-success status from an upstream service.
// Error returns only Message; the cause stays reachable through Unwrap.
type NetworkError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string { return e.Message }

func (e *NetworkError) Unwrap() error { return e.Err }

// Detail includes the status code and cause, for logs.
func (e *NetworkError) Detail() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Message, e.StatusCode)
	default:
		return e.Message
	}
}

// NotFoundError means the geocoder returned no match for Query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string { return "City not found" }

// DataUnavailableError means the forecast response had no current_weather block.
type DataUnavailableError struct {
	Latitude  float64
	Longitude float64
}

func (e *DataUnavailableError) Error() string { return "No weather data available" }
