package client

import (
	"context"
	"strings"
	"sync"

	"github.com/astrasemi/astrasemi/internal/model"
)

// DetailState is a snapshot of the detail panel: the AI elaboration and
// related-term suggestions load independently, and a failure in one never
// blocks the other.
type DetailState struct {
	Term model.GlossaryTerm

	Explanation        string
	ExplanationLoading bool
	ExplanationErr     error

	Related        []string
	RelatedLoading bool
	RelatedErr     error
}

// DetailFlow manages one glossary detail panel. A generation counter guards
// against the stale-response race: responses that arrive after Close (or
// after another Open) are dropped silently.
type DetailFlow struct {
	c        *Client
	Language string

	mu    sync.Mutex
	gen   int
	state DetailState
}

// NewDetailFlow creates the detail workflow bound to a client.
func NewDetailFlow(c *Client) *DetailFlow { return &DetailFlow{c: c} }

// Open starts both fetches for a term and returns immediately. done, if not
// nil, is invoked once per completed fetch that was not dropped as stale.
func (f *DetailFlow) Open(ctx context.Context, term model.GlossaryTerm, done func()) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state = DetailState{
		Term:               term,
		ExplanationLoading: true,
		RelatedLoading:     true,
	}
	f.mu.Unlock()

	go func() {
		explanation, err := f.c.Explain(ctx, term.Term, term.ShortDefinition, f.Language)
		if f.apply(gen, func(st *DetailState) {
			st.Explanation = explanation
			st.ExplanationErr = err
			st.ExplanationLoading = false
		}) && done != nil {
			done()
		}
	}()

	go func() {
		related, err := f.c.RelatedTerms(ctx, term.Term, f.Language)
		if f.apply(gen, func(st *DetailState) {
			st.Related = related
			st.RelatedErr = err
			st.RelatedLoading = false
		}) && done != nil {
			done()
		}
	}()
}

// Close abandons the panel. In-flight responses for the closed generation
// are discarded when they land.
func (f *DetailFlow) Close() {
	f.mu.Lock()
	f.gen++
	f.state = DetailState{}
	f.mu.Unlock()
}

// State returns the current panel snapshot.
func (f *DetailFlow) State() DetailState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// apply mutates the state only if the generation still matches.
func (f *DetailFlow) apply(gen int, mutate func(*DetailState)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return false
	}
	mutate(&f.state)
	return true
}

// ResolveRelated resolves a clicked related-term name against a loaded
// result set first, falling back to a targeted fetch by identifier.
func (f *DetailFlow) ResolveRelated(ctx context.Context, name string, loaded []model.GlossaryTerm) (model.GlossaryTerm, error) {
	for _, t := range loaded {
		if strings.EqualFold(t.Term, name) || strings.EqualFold(t.ID, name) {
			return t, nil
		}
	}
	return f.c.GetTerm(ctx, termID(name))
}

// termID normalizes a display name into the dataset's identifier form.
func termID(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
