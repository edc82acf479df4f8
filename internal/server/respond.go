package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astrasemi/astrasemi/internal/openai"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// writeUpstreamError maps AI client failures onto responses: auth and rate
// problems are configuration issues on this side (500), everything else is a
// bad gateway.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, openai.ErrUnauthorized), errors.Is(err, openai.ErrNoAPIKey):
		writeError(w, http.StatusInternalServerError, "AI provider rejected the configured API key")
	case errors.Is(err, openai.ErrRateLimited):
		writeError(w, http.StatusBadGateway, "AI provider rate limit reached, try again shortly")
	default:
		writeError(w, http.StatusBadGateway, "AI analysis failed: "+err.Error())
	}
}

// requireAI answers 503 when no AI client is configured.
func (s *Server) requireAI(w http.ResponseWriter) bool {
	if s.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "no AI provider configured; set openai.api_key or OPENAI_API_KEY")
		return false
	}
	return true
}
