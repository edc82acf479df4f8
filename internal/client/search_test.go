package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSearchDebounceCollapsesKeystrokes(t *testing.T) {
	var requests atomic.Int32
	var mu sync.Mutex
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"success":true,"terms":[],"categories":[]}`))
	}))
	defer srv.Close()

	done := make(chan SearchResult, 4)
	s := NewSearcher(context.Background(), New(srv.URL, nil, nil), 60*time.Millisecond, func(res SearchResult, err error) {
		if err != nil {
			t.Errorf("search error: %v", err)
		}
		done <- res
	})
	defer s.Close()

	// Type "wafer" one character at a time, faster than the quiet period.
	for _, q := range []string{"w", "wa", "waf", "wafe", "wafer"} {
		s.SetQuery(q, "")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never fired")
	}

	// Allow any (incorrect) extra timers to fire before asserting.
	time.Sleep(150 * time.Millisecond)

	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want exactly 1", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(queries) != 1 || queries[0] != "wafer" {
		t.Errorf("queries = %v, want [wafer]", queries)
	}
}

func TestSearcherFlushFiresImmediately(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"success":true,"terms":[],"categories":[]}`))
	}))
	defer srv.Close()

	s := NewSearcher(context.Background(), New(srv.URL, nil, nil), time.Hour, nil)
	defer s.Close()

	s.SetQuery("etch", "")
	s.Flush()

	if got := requests.Load(); got != 1 {
		t.Errorf("requests after Flush = %d, want 1", got)
	}
}

func TestSearcherFlushAfterTimerFiredIsNoOp(t *testing.T) {
	var requests atomic.Int32
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		entered <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"success":true,"terms":[],"categories":[]}`))
	}))
	defer srv.Close()

	s := NewSearcher(context.Background(), New(srv.URL, nil, nil), 10*time.Millisecond, nil)
	defer s.Close()

	s.SetQuery("reticle", "")

	// Wait until the debounce timer has fired and its request is in flight,
	// then Flush. The settled query was already consumed, so nothing fires.
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never fired")
	}
	s.Flush()
	close(release)

	time.Sleep(50 * time.Millisecond)
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1 (Flush re-fired the consumed query)", got)
	}
}

func TestSearcherCloseCancelsPending(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"success":true,"terms":[],"categories":[]}`))
	}))
	defer srv.Close()

	s := NewSearcher(context.Background(), New(srv.URL, nil, nil), 30*time.Millisecond, nil)
	s.SetQuery("cmp", "")
	s.Close()

	time.Sleep(100 * time.Millisecond)
	if got := requests.Load(); got != 0 {
		t.Errorf("requests after Close = %d, want 0", got)
	}
}
