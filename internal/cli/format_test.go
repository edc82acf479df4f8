package cli

import (
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		secs int64
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{125, "2m"},
		{3725, "1h 2m"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.secs); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(0.42); got != "0.4s" {
		t.Errorf("got %q", got)
	}
	if got := FormatElapsed(95); got != "1m 35s" {
		t.Errorf("got %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.n); got != c.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatTrend(t *testing.T) {
	if got := FormatTrend(50); got != "+50%" {
		t.Errorf("got %q", got)
	}
	if got := FormatTrend(-25); got != "-25%" {
		t.Errorf("got %q", got)
	}
	if got := FormatTrend(0); got != "+0%" {
		t.Errorf("got %q", got)
	}
}

func TestRenderTableIncludesCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Count"},
		Rows:    [][]string{{"csv", "12"}, {"image", "3"}},
	})
	for _, want := range []string{"Category", "csv", "12", "image"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	out := RenderSparkline([]float64{0, 1, 2, 3})
	if len([]rune(out)) != 4 {
		t.Errorf("expected 4 glyphs, got %q", out)
	}
	if RenderSparkline(nil) != "" {
		t.Error("expected empty output for empty input")
	}
}
