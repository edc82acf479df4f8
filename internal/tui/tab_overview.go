package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/astrasemi/astrasemi/internal/analytics"
	"github.com/astrasemi/astrasemi/internal/cli"
	"github.com/astrasemi/astrasemi/internal/model"
	"github.com/astrasemi/astrasemi/internal/tui/components"
	"github.com/astrasemi/astrasemi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sum := a.summary
	var b strings.Builder

	// Row 1: Metric cards
	trend := analytics.TrendPercent(sum.WeeklyCount, sum.PreviousWeekCount)
	weekDelta := fmt.Sprintf("%s vs last week", cli.FormatTrend(trend))

	avgDelta := ""
	if sum.TotalCount > 0 {
		avgDelta = "per analysis"
	}

	resetDelta := ""
	if !sum.LastReset.IsZero() {
		resetDelta = "since " + sum.LastReset.Format("Jan 2")
	}

	cards := []components.Metric{
		{Label: "Analyses", Value: cli.FormatNumber(int64(sum.TotalCount)), Delta: resetDelta},
		{Label: "This Week", Value: cli.FormatNumber(int64(sum.WeeklyCount)), Delta: weekDelta},
		{Label: "Avg Time", Value: cli.FormatElapsed(sum.AvgProcessingSecs), Delta: avgDelta},
		{Label: "Uptime", Value: fmt.Sprintf("%.1f%%", sum.UptimePercent), Delta: "success rate"},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Daily analyses chart over the last 7 days
	vals, labels := dailyCounts(sum.Entries, 7, time.Now())
	chartInnerW := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard(
		"Daily Analyses (7d)",
		components.BarChart(vals, labels, t.Blue, chartInnerW, 8),
		cw,
	))
	b.WriteString("\n")

	// Row 3: Category Split + Health
	halves := components.LayoutRow(cw, 2)
	innerW := components.CardInnerWidth(halves[0])

	catCard := components.ContentCard("Category Split", categorySplitBody(sum.Entries, innerW), halves[0])
	healthCard := components.ContentCard("Health", healthBody(sum, components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Category Split", categorySplitBody(sum.Entries, components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Health", healthBody(sum, components.CardInnerWidth(cw)), cw))
	} else {
		b.WriteString(components.CardRow([]string{catCard, healthCard}))
	}

	return b.String()
}

// dailyCounts buckets entries into per-day counts for the last n days,
// oldest first, with weekday labels.
func dailyCounts(entries []model.ActivityEntry, n int, now time.Time) ([]float64, []string) {
	vals := make([]float64, n)
	labels := make([]string, n)

	dayStart := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	today := dayStart(now)

	for i := 0; i < n; i++ {
		day := today.AddDate(0, 0, i-n+1)
		labels[i] = day.Format("Mon")[:2]
	}

	for _, e := range entries {
		idx := n - 1 - int(today.Sub(dayStart(e.Timestamp))/(24*time.Hour))
		if idx >= 0 && idx < n {
			vals[idx]++
		}
	}

	return vals, labels
}

// categorySplitBody renders one bar per category, scaled to the busiest one.
func categorySplitBody(entries []model.ActivityEntry, innerW int) string {
	t := theme.Active

	categories := []model.Category{
		model.CategoryCSV,
		model.CategoryText,
		model.CategoryImage,
		model.CategoryGlossary,
		model.CategoryGlossaryAIExplain,
	}
	counts := make(map[model.Category]int)
	for _, e := range entries {
		counts[e.Category]++
	}

	maxCount := 0
	nameW := 0
	for _, c := range categories {
		if counts[c] > maxCount {
			maxCount = counts[c]
		}
		if len(c) > nameW {
			nameW = len(c)
		}
	}

	barMax := innerW - nameW - 8
	if barMax < 1 {
		barMax = 1
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	numStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	for _, c := range categories {
		barLen := 0
		if maxCount > 0 {
			barLen = counts[c] * barMax / maxCount
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, string(c))),
			barStyle.Render(strings.Repeat("█", barLen)),
			numStyle.Render(fmt.Sprintf("%d", counts[c])))
	}
	return b.String()
}

// healthBody renders the success-rate bar plus outcome counts.
func healthBody(sum model.AnalyticsSummary, innerW int) string {
	t := theme.Active

	var ok, warn, fail int
	for _, e := range sum.Entries {
		switch e.Status {
		case model.StatusSuccess:
			ok++
		case model.StatusWarning:
			warn++
		case model.StatusError:
			fail++
		}
	}

	barW := innerW - 16
	if barW < 10 {
		barW = 10
	}

	okStyle := lipgloss.NewStyle().Foreground(t.Green)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange)
	failStyle := lipgloss.NewStyle().Foreground(t.Red)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(components.HealthBar("uptime", sum.UptimePercent/100, 8, barW))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		okStyle.Render("●"), mutedStyle.Render(fmt.Sprintf("%d ok", ok)),
		warnStyle.Render("●"), mutedStyle.Render(fmt.Sprintf("%d warn", warn)),
		failStyle.Render("●"), mutedStyle.Render(fmt.Sprintf("%d failed", fail)))
	return b.String()
}
