package model

// WeatherObservation is the current weather at a resolved location.
// ConditionCode is passed through exactly as the provider sent it.
type WeatherObservation struct {
	TemperatureCelsius float64 `json:"temperature"`
	ConditionCode      int     `json:"weathercode"`
	WindSpeed          float64 `json:"windspeed"`
	WindDirection      float64 `json:"winddirection"`
	IsDay              bool    `json:"is_day"`
	Time               string  `json:"time,omitempty"`
}

// WeatherReport is the JSON representation of a successful search.
type WeatherReport struct {
	Location      string  `json:"location"`
	Country       string  `json:"country,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Temperature   float64 `json:"temperature"`
	ConditionCode int     `json:"weathercode"`
	Condition     string  `json:"condition"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	IsDay         bool    `json:"is_day"`
	ObservedAt    string  `json:"observed_at,omitempty"`
}
