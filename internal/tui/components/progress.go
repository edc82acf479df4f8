package components

import (
	"fmt"

	"github.com/astrasemi/astrasemi/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForHealth returns green/yellow/orange/red for a success-rate percentage.
func ColorForHealth(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 0.95:
		return string(t.Green)
	case pct >= 0.8:
		return string(t.Yellow)
	case pct >= 0.5:
		return string(t.Orange)
	default:
		return string(t.Red)
	}
}

// HealthBar renders a labeled success-rate bar with percentage.
func HealthBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForHealth(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForHealth(pct))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
