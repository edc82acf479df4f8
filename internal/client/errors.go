package client

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a workflow already has a request outstanding.
// The guard lives here at the call site, not in any UI affordance.
var ErrBusy = errors.New("operation already in progress")

// Kind classifies a workflow failure for user-facing messaging.
type Kind int

const (
	// KindValidation failures are caught before any request is issued.
	KindValidation Kind = iota
	// KindClient covers non-2xx statuses below 500 and 2xx bodies whose
	// success flag is false.
	KindClient
	// KindService covers HTTP statuses >= 500.
	KindService
	// KindNetwork covers requests that could not complete at all.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindClient:
		return "client"
	case KindService:
		return "service"
	case KindNetwork:
		return "network"
	}
	return "unknown"
}

// FlowError is a classified workflow failure.
type FlowError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error { return e.Err }

func validationErr(msg string) *FlowError {
	return &FlowError{Kind: KindValidation, Message: msg}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// report as network failures, the most conservative category.
func KindOf(err error) Kind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNetwork
}

// toastText maps a failure to category-appropriate notification wording.
func toastText(err error) string {
	var fe *FlowError
	if !errors.As(err, &fe) {
		return "Something went wrong"
	}
	switch fe.Kind {
	case KindValidation:
		return fe.Message
	case KindService:
		return "The analysis service is temporarily unavailable"
	case KindNetwork:
		return "Cannot reach the analysis server"
	default:
		return fe.Message
	}
}
