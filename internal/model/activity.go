// Package model defines domain types shared across astrasemi packages.
package model

import "time"

// Category identifies which workflow produced an activity entry.
type Category string

const (
	CategoryCSV               Category = "csv"
	CategoryText              Category = "text"
	CategoryImage             Category = "image"
	CategoryGlossary          Category = "glossary"
	CategoryGlossaryAIExplain Category = "glossary-ai-explain"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCSV, CategoryText, CategoryImage, CategoryGlossary, CategoryGlossaryAIExplain:
		return true
	}
	return false
}

// Status is the outcome of a recorded operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
)

// ActivityEntry is one immutable record of a completed or failed operation.
type ActivityEntry struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	Timestamp   time.Time `json:"timestamp"`
	Status      Status    `json:"status"`
	ElapsedSecs float64   `json:"elapsed_secs"`
}

// AnalyticsSummary is the aggregate state served to dashboards.
// Entries holds at most the 50 newest records; the counters are unbounded.
type AnalyticsSummary struct {
	TotalCount        int             `json:"total_count"`
	WeeklyCount       int             `json:"weekly_count"`
	PreviousWeekCount int             `json:"previous_week_count"`
	AvgProcessingSecs float64         `json:"avg_processing_secs"`
	UptimePercent     float64         `json:"uptime_percent"`
	Entries           []ActivityEntry `json:"entries"`
	LastReset         time.Time       `json:"last_reset"`
}
