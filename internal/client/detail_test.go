package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/astrasemi/astrasemi/internal/model"
)

func waferTerm() model.GlossaryTerm {
	return model.GlossaryTerm{ID: "wafer", Term: "Wafer", ShortDefinition: "thin slice of silicon"}
}

func TestDetailFetchesBothIndependently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/glossary/ai-explain":
			_, _ = w.Write([]byte(`{"success":true,"explanation":"wafers are the substrate for chips"}`))
		case "/api/glossary/related-terms":
			// Related fetch fails; the explanation must still land.
			w.WriteHeader(http.StatusInternalServerError)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	flow := NewDetailFlow(New(srv.URL, nil, nil))

	done := make(chan struct{}, 2)
	flow.Open(context.Background(), waferTerm(), func() { done <- struct{}{} })
	<-done
	<-done

	st := flow.State()
	if st.ExplanationLoading || st.RelatedLoading {
		t.Fatalf("still loading: %+v", st)
	}
	if st.ExplanationErr != nil {
		t.Errorf("explanation err = %v", st.ExplanationErr)
	}
	if st.Explanation == "" {
		t.Error("explanation empty")
	}
	if st.RelatedErr == nil {
		t.Error("related fetch should have failed")
	}
	if KindOf(st.RelatedErr) != KindService {
		t.Errorf("related err kind = %v, want service", KindOf(st.RelatedErr))
	}
}

func TestDetailDropsStaleResponses(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"success":true,"explanation":"late","relatedTerms":["Die"]}`))
	}))
	defer srv.Close()

	flow := NewDetailFlow(New(srv.URL, nil, nil))

	applied := make(chan struct{}, 2)
	flow.Open(context.Background(), waferTerm(), func() { applied <- struct{}{} })

	// Close before either response lands; late arrivals must be dropped.
	flow.Close()
	close(release)

	select {
	case <-applied:
		t.Fatal("stale response was applied after Close")
	case <-time.After(300 * time.Millisecond):
	}

	st := flow.State()
	if st.Explanation != "" || len(st.Related) != 0 {
		t.Errorf("stale data leaked into state: %+v", st)
	}
}

func TestReopenInvalidatesPreviousGeneration(t *testing.T) {
	slow := make(chan struct{})
	var first atomic.Bool
	first.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/glossary/ai-explain" && first.CompareAndSwap(true, false) {
			<-slow
			_, _ = w.Write([]byte(`{"success":true,"explanation":"from first open"}`))
			return
		}
		switch r.URL.Path {
		case "/api/glossary/ai-explain":
			_, _ = w.Write([]byte(`{"success":true,"explanation":"from second open"}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"relatedTerms":[]}`))
		}
	}))
	defer srv.Close()

	flow := NewDetailFlow(New(srv.URL, nil, nil))

	flow.Open(context.Background(), waferTerm(), nil)
	flow.Open(context.Background(), model.GlossaryTerm{ID: "die", Term: "Die"}, nil)
	close(slow)

	deadline := time.Now().Add(2 * time.Second)
	for {
		st := flow.State()
		if !st.ExplanationLoading {
			if st.Explanation != "from second open" {
				t.Errorf("explanation = %q", st.Explanation)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("second open never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Give the first open's late response a chance to (incorrectly) land.
	time.Sleep(100 * time.Millisecond)
	if st := flow.State(); st.Explanation != "from second open" {
		t.Errorf("stale first-open response overwrote state: %q", st.Explanation)
	}
}

func TestResolveRelatedPrefersLoadedSet(t *testing.T) {
	var fetched bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = true
		_, _ = w.Write([]byte(`{"success":true,"term":{"id":"cmp","term":"CMP"}}`))
	}))
	defer srv.Close()

	flow := NewDetailFlow(New(srv.URL, nil, nil))
	loaded := []model.GlossaryTerm{{ID: "die", Term: "Die"}}

	term, err := flow.ResolveRelated(context.Background(), "Die", loaded)
	if err != nil {
		t.Fatal(err)
	}
	if term.ID != "die" || fetched {
		t.Errorf("local resolution failed: term=%+v fetched=%v", term, fetched)
	}

	term, err = flow.ResolveRelated(context.Background(), "CMP", loaded)
	if err != nil {
		t.Fatal(err)
	}
	if term.ID != "cmp" || !fetched {
		t.Errorf("fallback fetch failed: term=%+v fetched=%v", term, fetched)
	}
}
