package view

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
)

var widgetTmpl *template.Template

// loadTemplatesFromFS loads the page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	widgetTmpl = tmpl
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// PageData is the view model for the full page.
type PageData struct {
	Title  string
	Widget *Widget
}

func RenderPage(w io.Writer, data *PageData) error {
	if widgetTmpl == nil {
		return errors.New("page template not loaded: call view.LoadTemplates during startup")
	}
	return widgetTmpl.ExecuteTemplate(w, "index.html", data)
}

// RenderWidget executes only the widget partial, for fragment swaps.
func RenderWidget(w io.Writer, widget *Widget) error {
	if widgetTmpl == nil {
		return errors.New("widget template not loaded: call view.LoadTemplates during startup")
	}
	return widgetTmpl.ExecuteTemplate(w, "widget", widget)
}
