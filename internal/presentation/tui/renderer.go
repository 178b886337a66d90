package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Styles are detected from the terminal unless color is false, in which case
// the plain "notty" style is used.
func NewRenderer(color bool) (func(string) (string, error), error) {
	style := glamour.WithAutoStyle()
	if !color {
		style = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
