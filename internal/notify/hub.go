// Package notify implements the in-memory toast notification hub.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/astrasemi/astrasemi/internal/model"
)

// DefaultTTL is how long a toast stays up without manual dismissal.
const DefaultTTL = 4 * time.Second

// EventType distinguishes hub events on the subscription channel.
type EventType string

const (
	EventShow    EventType = "show"
	EventDismiss EventType = "dismiss"
)

// Event is delivered to subscribers when the toast set changes.
type Event struct {
	Type  EventType
	Toast model.ToastMessage
}

// Hub is a process-wide ordered queue of ephemeral toasts. Each toast
// self-dismisses after the TTL unless dismissed earlier. Purely in-memory;
// nothing survives a restart.
type Hub struct {
	mu     sync.Mutex
	ttl    time.Duration
	toasts []model.ToastMessage
	timers map[string]*time.Timer

	nextSubID int
	subs      map[int]chan Event
}

// NewHub creates a hub. A non-positive ttl selects DefaultTTL.
func NewHub(ttl time.Duration) *Hub {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Hub{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
		subs:   make(map[int]chan Event),
	}
}

// Show appends a toast to the tail of the queue and schedules its removal.
// Identical text never coalesces; every call yields a distinct toast.
func (h *Hub) Show(text string, severity model.Severity) model.ToastMessage {
	toast := model.ToastMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	h.toasts = append(h.toasts, toast)
	h.timers[toast.ID] = time.AfterFunc(h.ttl, func() {
		h.Dismiss(toast.ID)
	})
	h.publishLocked(Event{Type: EventShow, Toast: toast})
	h.mu.Unlock()

	return toast
}

// Success, Error, Warning and Info are severity shorthands.
func (h *Hub) Success(text string) model.ToastMessage { return h.Show(text, model.SeveritySuccess) }
func (h *Hub) Error(text string) model.ToastMessage   { return h.Show(text, model.SeverityError) }
func (h *Hub) Warning(text string) model.ToastMessage { return h.Show(text, model.SeverityWarning) }
func (h *Hub) Info(text string) model.ToastMessage    { return h.Show(text, model.SeverityInfo) }

// Dismiss removes a toast by identity and cancels its timer. Dismissing an
// unknown or already-dismissed id is a no-op.
func (h *Hub) Dismiss(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	timer, ok := h.timers[id]
	if !ok {
		return
	}
	timer.Stop()
	delete(h.timers, id)

	for i, t := range h.toasts {
		if t.ID == id {
			h.publishLocked(Event{Type: EventDismiss, Toast: t})
			h.toasts = append(h.toasts[:i], h.toasts[i+1:]...)
			break
		}
	}
}

// Active returns the currently displayed toasts in arrival order.
func (h *Hub) Active() []model.ToastMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.ToastMessage, len(h.toasts))
	copy(out, h.toasts)
	return out
}

// Subscribe registers an observer channel. Slow subscribers drop events
// rather than blocking the hub.
func (h *Hub) Subscribe() (int, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSubID++
	ch := make(chan Event, 16)
	h.subs[h.nextSubID] = ch
	return h.nextSubID, ch
}

// Unsubscribe removes an observer.
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// Close cancels all pending timers and drops all toasts.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, timer := range h.timers {
		timer.Stop()
		delete(h.timers, id)
	}
	h.toasts = nil
}

func (h *Hub) publishLocked(ev Event) {
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
