// Package glossary serves the static semiconductor term reference data.
package glossary

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/astrasemi/astrasemi/internal/model"
)

//go:embed terms.json
var termsJSON []byte

// Index holds the loaded glossary with lookup by id.
type Index struct {
	terms []model.GlossaryTerm
	byID  map[string]model.GlossaryTerm
}

// Load parses the embedded dataset. The data ships with the binary, so a
// failure here is a build defect, not a runtime condition.
func Load() (*Index, error) {
	var terms []model.GlossaryTerm
	if err := json.Unmarshal(termsJSON, &terms); err != nil {
		return nil, fmt.Errorf("glossary: parsing embedded terms: %w", err)
	}

	byID := make(map[string]model.GlossaryTerm, len(terms))
	for _, t := range terms {
		byID[t.ID] = t
	}
	return &Index{terms: terms, byID: byID}, nil
}

// All returns every term in dataset order.
func (ix *Index) All() []model.GlossaryTerm {
	return ix.terms
}

// Get returns the term with the given id.
func (ix *Index) Get(id string) (model.GlossaryTerm, bool) {
	t, ok := ix.byID[id]
	return t, ok
}

// Categories returns the sorted set of distinct categories.
func (ix *Index) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, t := range ix.terms {
		if !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// Search returns terms matching a case-insensitive substring query over the
// term name and both definitions, optionally restricted to one category.
// An empty query matches everything in the category.
func (ix *Index) Search(query, category string) []model.GlossaryTerm {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []model.GlossaryTerm
	for _, t := range ix.terms {
		if category != "" && !strings.EqualFold(t.Category, category) {
			continue
		}
		if q == "" || matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

// Related resolves a term's related-term ids against the dataset. Dangling
// ids are skipped.
func (ix *Index) Related(id string) []model.GlossaryTerm {
	t, ok := ix.byID[id]
	if !ok {
		return nil
	}
	var out []model.GlossaryTerm
	for _, rid := range t.RelatedTerms {
		if rt, ok := ix.byID[rid]; ok {
			out = append(out, rt)
		}
	}
	return out
}

func matches(t model.GlossaryTerm, q string) bool {
	return strings.Contains(strings.ToLower(t.Term), q) ||
		strings.Contains(strings.ToLower(t.ID), q) ||
		strings.Contains(strings.ToLower(t.ShortDefinition), q) ||
		strings.Contains(strings.ToLower(t.DetailedDefinition), q)
}
