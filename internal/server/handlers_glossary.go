package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/astrasemi/astrasemi/internal/model"
)

type glossarySearchResponse struct {
	Success    bool                 `json:"success"`
	Terms      []model.GlossaryTerm `json:"terms"`
	Categories []string             `json:"categories"`
}

func (s *Server) handleGlossarySearch(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	terms := s.glossary.Search(q, category)
	if terms == nil {
		terms = []model.GlossaryTerm{}
	}

	title := "Glossary search"
	if q != "" {
		title = fmt.Sprintf("Glossary search: %q", q)
	}
	s.record(model.CategoryGlossary, title, started, model.StatusSuccess)
	writeJSON(w, http.StatusOK, glossarySearchResponse{
		Success:    true,
		Terms:      terms,
		Categories: s.glossary.Categories(),
	})
}

func (s *Server) handleGlossaryTerm(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := r.PathValue("id")
	term, ok := s.glossary.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown term: "+id)
		return
	}
	s.record(model.CategoryGlossary, "Glossary lookup: "+term.Term, started, model.StatusSuccess)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"term":    term,
	})
}

type explainRequest struct {
	Term     string `json:"term"`
	Context  string `json:"context"`
	Language string `json:"language"`
}

func (s *Server) handleGlossaryExplain(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}

	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Term) == "" {
		writeError(w, http.StatusBadRequest, "term is required")
		return
	}

	started := time.Now()
	title := "AI explanation: " + req.Term
	explanation, err := s.ai.Chat(r.Context(), systemPrompt, explainPrompt(req.Term, req.Context, req.Language))
	if err != nil {
		s.record(model.CategoryGlossaryAIExplain, title, started, model.StatusError)
		writeUpstreamError(w, err)
		return
	}

	s.record(model.CategoryGlossaryAIExplain, title, started, model.StatusSuccess)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"explanation": explanation,
	})
}

type relatedRequest struct {
	Term     string `json:"term"`
	Language string `json:"language"`
}

func (s *Server) handleGlossaryRelated(w http.ResponseWriter, r *http.Request) {
	var req relatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Term) == "" {
		writeError(w, http.StatusBadRequest, "term is required")
		return
	}

	related := s.relatedTerms(r, req)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"relatedTerms": related,
	})
}

// relatedTerms asks the AI for suggestions and falls back to the static
// dataset relations when no AI is configured or its output is unusable.
func (s *Server) relatedTerms(r *http.Request, req relatedRequest) []string {
	if s.ai != nil {
		raw, err := s.ai.Chat(r.Context(), systemPrompt, relatedPrompt(req.Term, req.Language))
		if err == nil {
			if terms := parseJSONStringArray(raw); len(terms) > 0 {
				return terms
			}
		}
	}

	var related []string
	for _, t := range s.glossary.Search(req.Term, "") {
		for _, rt := range s.glossary.Related(t.ID) {
			related = append(related, rt.Term)
		}
		break
	}
	if related == nil {
		related = []string{}
	}
	return related
}

// parseJSONStringArray extracts a JSON array of strings from model output
// that may wrap it in prose or a code fence.
func parseJSONStringArray(raw string) []string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return nil
	}
	var clean []string
	for _, s := range out {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	return clean
}
