// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatElapsed formats a processing time in seconds.
// e.g., 0.42 -> "0.4s", 12.3 -> "12.3s", 95 -> "1m 35s"
func FormatElapsed(secs float64) string {
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	whole := int64(secs)
	return fmt.Sprintf("%dm %ds", whole/60, whole%60)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatTrend formats a week-over-week trend percentage with its sign.
// e.g., 50 -> "+50%", -25 -> "-25%"
func FormatTrend(pct int) string {
	if pct >= 0 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}

// FormatSize formats a byte count, e.g. 52428800 -> "50 MiB".
func FormatSize(n int64) string {
	return humanize.IBytes(uint64(n))
}

// FormatTimeAgo renders a timestamp relative to now, e.g. "3 minutes ago".
func FormatTimeAgo(t time.Time) string {
	return humanize.Time(t)
}
