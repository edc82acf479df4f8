package cli

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownWrap is the wrap width for rendered model output.
const markdownWrap = 100

// RenderMarkdown renders model output (headings, lists, emphasis) for the
// terminal. Falls back to the raw text when rendering fails.
func RenderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
