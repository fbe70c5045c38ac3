package model

// ResolvedLocation is the best geocoding match for a place query.
type ResolvedLocation struct {
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DisplayName is the name, suffixed with ", <country>" when a country is known.
func (l ResolvedLocation) DisplayName() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}
