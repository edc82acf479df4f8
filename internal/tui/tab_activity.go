package tui

import (
	"fmt"
	"strings"

	"github.com/astrasemi/astrasemi/internal/cli"
	"github.com/astrasemi/astrasemi/internal/model"
	"github.com/astrasemi/astrasemi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderActivityTab(cw, contentH int) string {
	t := theme.Active
	entries := a.summary.Entries

	if len(entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(t.TextDim).
			Padding(1, 2).
			Render("No activity yet. Run an analysis to see it here.")
	}

	// Visible window around the cursor
	visible := contentH - 3
	if visible < 1 {
		visible = 1
	}
	offset := 0
	if a.actCursor >= visible {
		offset = a.actCursor - visible + 1
	}
	end := offset + visible
	if end > len(entries) {
		end = len(entries)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	timeW := 14
	catW := 19
	statusW := 7
	elapsedW := 7
	titleW := cw - timeW - catW - statusW - elapsedW - 10
	if titleW < 12 {
		titleW = 12
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s\n",
		headerStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %*s  %s",
			timeW, "When", catW, "Category", statusW, "Status", elapsedW, "Time", "Title")))
	b.WriteString(dimStyle.Render(" " + strings.Repeat("─", cw-2)))
	b.WriteString("\n")

	for i := offset; i < end; i++ {
		e := entries[i]
		line := fmt.Sprintf("%-*s %-*s %-*s %*s  %s",
			timeW, truncStr(cli.FormatTimeAgo(e.Timestamp), timeW),
			catW, truncStr(string(e.Category), catW),
			statusW, statusGlyph(e.Status),
			elapsedW, cli.FormatElapsed(e.ElapsedSecs),
			truncStr(e.Title, titleW))

		if i == a.actCursor {
			b.WriteString(selStyle.Render(" " + line))
		} else {
			b.WriteString(rowStyle.Render(" " + line))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, " %s",
		dimStyle.Render(fmt.Sprintf("%d of %d entries", a.actCursor+1, len(entries))))

	return b.String()
}

func statusGlyph(s model.Status) string {
	switch s {
	case model.StatusSuccess:
		return "ok"
	case model.StatusWarning:
		return "warn"
	case model.StatusError:
		return "fail"
	}
	return string(s)
}
