package client

import (
	"context"
	"sync"
	"time"
)

// DebounceDelay is how long a query must settle before a search fires.
const DebounceDelay = 300 * time.Millisecond

// Searcher debounces glossary queries: intermediate keystrokes never trigger
// a request, only the final settled query does.
type Searcher struct {
	c       *Client
	delay   time.Duration
	onDone  func(SearchResult, error)
	ctx     context.Context

	mu       sync.Mutex
	timer    *time.Timer
	query    string
	category string
	pending  bool
	closed   bool
}

// NewSearcher creates a debounced searcher. onDone is invoked from a timer
// goroutine with each settled query's result. A non-positive delay selects
// DebounceDelay.
func NewSearcher(ctx context.Context, c *Client, delay time.Duration, onDone func(SearchResult, error)) *Searcher {
	if delay <= 0 {
		delay = DebounceDelay
	}
	return &Searcher{c: c, delay: delay, onDone: onDone, ctx: ctx}
}

// SetQuery registers the latest keystroke state and restarts the quiet-period
// timer.
func (s *Searcher) SetQuery(query, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.query = query
	s.category = category
	s.pending = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

// Flush fires the pending query immediately, bypassing the quiet period.
// A no-op when nothing is pending, including when the timer already fired.
func (s *Searcher) Flush() {
	s.mu.Lock()
	if s.closed || !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	query, category := s.query, s.category
	s.mu.Unlock()
	s.search(query, category)
}

// Close cancels any pending search.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Searcher) fire() {
	s.mu.Lock()
	if s.closed || !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	query, category := s.query, s.category
	s.mu.Unlock()
	s.search(query, category)
}

func (s *Searcher) search(query, category string) {
	result, err := s.c.SearchGlossary(s.ctx, query, category)
	if s.onDone != nil {
		s.onDone(result, err)
	}
}
