package view

// Region is one of the three mutually exclusive areas of the widget.
type Region int

const (
	RegionLoading Region = iota
	RegionError
	RegionResult
)

var regions = [...]Region{RegionLoading, RegionError, RegionResult}

func (r Region) String() string {
	switch r {
	case RegionLoading:
		return "loading"
	case RegionError:
		return "error"
	case RegionResult:
		return "result"
	default:
		return "unknown"
	}
}

// ResultContent is the summary shown in the result region.
type ResultContent struct {
	Title       string
	Temperature string
	Weather     string
}

// Surface is the display the Controller writes to.
type Surface interface {
	Show(r Region)
	Hide(r Region)
	SetErrorText(text string)
	SetIcon(src, alt string)
	SetContent(c ResultContent)
}
