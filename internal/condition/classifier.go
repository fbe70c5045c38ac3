// Package condition maps Open-Meteo weather codes to the three display
// categories the widget knows about.
package condition

// Kind is a display category.
type Kind int

const (
	Clear Kind = iota
	Cloudy
	Rainy
)

func (k Kind) String() string {
	switch k {
	case Cloudy:
		return "cloudy"
	case Rainy:
		return "rainy"
	default:
		return "clear"
	}
}

// Category is a Kind with the label and icon shown for it.
type Category struct {
	Kind  Kind
	Label string
	Icon  string
}

const iconBase = "/static/icons/"

var (
	clearCategory  = Category{Kind: Clear, Label: "Sunny", Icon: iconBase + "sun.svg"}
	cloudyCategory = Category{Kind: Cloudy, Label: "Cloudy", Icon: iconBase + "clouds.svg"}
	rainyCategory  = Category{Kind: Rainy, Label: "Rainy", Icon: iconBase + "rain.svg"}
)

// Codes are matched by exact value. 45 (fog) and 71 (snow) are not listed and fall through to Clear.
var (
	cloudyCodes = map[int]struct{}{2: {}, 3: {}}
	rainyCodes  = map[int]struct{}{
		51: {}, 53: {}, 55: {},
		61: {}, 63: {}, 65: {},
		80: {}, 81: {}, 82: {},
	}
)

// Classify returns the category for a weather code. Every code maps to something.
func Classify(code int) Category {
	if _, ok := cloudyCodes[code]; ok {
		return cloudyCategory
	}
	if _, ok := rainyCodes[code]; ok {
		return rainyCategory
	}
	return clearCategory
}
