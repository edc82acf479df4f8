package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/astrasemi/astrasemi/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != 100 {
		t.Errorf("widths sum to %d, want 100", sum)
	}
	if widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Errorf("unexpected widths: %v", widths)
	}

	if LayoutRow(50, 0) != nil {
		t.Error("expected nil for zero columns")
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}
}

func TestMetricCardColorsTrendDelta(t *testing.T) {
	theme.SetActive("flexoki-dark")

	up := MetricCard(Metric{Label: "This Week", Value: "12", Delta: "+50% vs last week"}, 24)
	down := MetricCard(Metric{Label: "This Week", Value: "12", Delta: "-25% vs last week"}, 24)

	if !strings.Contains(up, "+50%") || !strings.Contains(down, "-25%") {
		t.Fatalf("delta text missing:\n%s\n%s", up, down)
	}
	upSeq := up[strings.Index(up, "+50%")-20 : strings.Index(up, "+50%")]
	downSeq := down[strings.Index(down, "-25%")-20 : strings.Index(down, "-25%")]
	if upSeq == downSeq {
		t.Error("positive and negative deltas rendered with the same color")
	}
}

func TestTabIdxByKey(t *testing.T) {
	if idx := TabIdxByKey('a'); idx != 1 {
		t.Errorf("TabIdxByKey('a') = %d, want 1", idx)
	}
	if idx := TabIdxByKey('z'); idx != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", idx)
	}
}
