package ui

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders page content for terminal display. Style and
// wrap follow the terminal; width <= 0 uses the detected terminal
// width. Falls back to the raw source if rendering fails.
func RenderMarkdown(content string, width int) string {
	if width <= 0 {
		width = GetWidth()
	}

	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}
	if ShouldUseColor() {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}
