package model

import "time"

// Severity grades a toast notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ToastMessage is a transient user-facing notification. Identity is unique
// even when two toasts carry identical text.
type ToastMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}
