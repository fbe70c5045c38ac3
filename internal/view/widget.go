package view

// Widget is an in-memory Surface. The HTTP layer renders one per request into HTML.
type Widget struct {
	visible   [len(regions)]bool
	ErrorText string
	IconSrc   string
	IconAlt   string
	Content   ResultContent
	Query     string
}

func NewWidget(query string) *Widget {
	return &Widget{Query: query}
}

func (w *Widget) Show(r Region) { w.visible[r] = true }

func (w *Widget) Hide(r Region) { w.visible[r] = false }

func (w *Widget) SetErrorText(text string) { w.ErrorText = text }

func (w *Widget) SetIcon(src, alt string) {
	w.IconSrc = src
	w.IconAlt = alt
}

func (w *Widget) SetContent(c ResultContent) { w.Content = c }

func (w *Widget) Visible(r Region) bool { return w.visible[r] }

// Template accessors.

func (w *Widget) LoadingVisible() bool { return w.Visible(RegionLoading) }

func (w *Widget) ErrorVisible() bool { return w.Visible(RegionError) }

func (w *Widget) ResultVisible() bool { return w.Visible(RegionResult) }

// VisibleCount is the number of regions currently shown. Not used by the
// templates; tests check exclusivity with it.
func (w *Widget) VisibleCount() int {
	n := 0
	for _, v := range w.visible {
		if v {
			n++
		}
	}
	return n
}
