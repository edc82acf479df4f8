package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/astrasemi/astrasemi/internal/model"
	"github.com/astrasemi/astrasemi/internal/tabular"
)

const (
	previewRows    = 5
	formSlackBytes = 1 << 20 // multipart boundary/field overhead
)

type analyzeCSVResponse struct {
	Success     bool       `json:"success"`
	Analysis    string     `json:"analysis"`
	DataPreview [][]string `json:"data_preview"`
	TotalRows   int        `json:"total_rows"`
	Columns     []string   `json:"columns"`
}

func (s *Server) handleAnalyzeCSV(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}

	maxBytes := s.cfg.Uploads.MaxCSVMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formSlackBytes)
	if err := r.ParseMultipartForm(maxBytes + formSlackBytes); err != nil {
		writeError(w, http.StatusBadRequest, "upload too large or malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q, expected .csv or .xlsx", ext))
		return
	}
	if header.Size > maxBytes {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file exceeds the %d MB limit", s.cfg.Uploads.MaxCSVMB))
		return
	}

	started := time.Now()
	title := "CSV analysis: " + header.Filename

	var table tabular.Table
	if ext == ".csv" {
		table, err = tabular.ParseCSV(file)
	} else {
		table, err = tabular.ParseXLSX(file)
	}
	if err != nil {
		s.record(model.CategoryCSV, title, started, model.StatusError)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	language := r.FormValue("language")
	analysis, err := s.ai.Chat(r.Context(), systemPrompt, csvPrompt(table.Digest(previewRows), language))
	if err != nil {
		s.record(model.CategoryCSV, title, started, model.StatusError)
		writeUpstreamError(w, err)
		return
	}

	s.record(model.CategoryCSV, title, started, model.StatusSuccess)
	writeJSON(w, http.StatusOK, analyzeCSVResponse{
		Success:     true,
		Analysis:    analysis,
		DataPreview: table.Preview(previewRows),
		TotalRows:   len(table.Rows),
		Columns:     table.Headers,
	})
}

type textRequest struct {
	Text     string `json:"text"`
	Type     string `json:"type"`
	Language string `json:"language"`
}

func (s *Server) handleInterpretText(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	started := time.Now()
	interpretation, err := s.ai.Chat(r.Context(), systemPrompt, interpretPrompt(req.Text, req.Language))
	if err != nil {
		s.record(model.CategoryText, "Text interpretation", started, model.StatusError)
		writeUpstreamError(w, err)
		return
	}

	s.record(model.CategoryText, "Text interpretation", started, model.StatusSuccess)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"interpretation": interpretation,
	})
}

func (s *Server) handleConvertText(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Type != "email" && req.Type != "update" {
		writeError(w, http.StatusBadRequest, `type must be "email" or "update"`)
		return
	}

	started := time.Now()
	title := "Text conversion (" + req.Type + ")"
	converted, err := s.ai.Chat(r.Context(), systemPrompt, convertPrompt(req.Text, req.Type, req.Language))
	if err != nil {
		s.record(model.CategoryText, title, started, model.StatusError)
		writeUpstreamError(w, err)
		return
	}

	s.record(model.CategoryText, title, started, model.StatusSuccess)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"converted": converted,
	})
}

type imageRequest struct {
	Image    string `json:"image"`
	Language string `json:"language"`
}

func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w) {
		return
	}

	var req imageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, (s.cfg.Uploads.MaxImageMB<<20)*2)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	payload := req.Image
	if idx := strings.Index(payload, ","); strings.HasPrefix(payload, "data:image") && idx >= 0 {
		payload = payload[idx+1:]
	}
	// Approximate decoded size from the base64 length.
	if int64(len(payload))*3/4 > s.cfg.Uploads.MaxImageMB<<20 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("image exceeds the %d MB limit", s.cfg.Uploads.MaxImageMB))
		return
	}

	started := time.Now()
	analysis, err := s.ai.AnalyzeImage(r.Context(), req.Image, imagePrompt(req.Language))
	if err != nil {
		s.record(model.CategoryImage, "Image analysis", started, model.StatusError)
		writeUpstreamError(w, err)
		return
	}

	s.record(model.CategoryImage, "Image analysis", started, model.StatusSuccess)
	// Historical shape: this endpoint has no success flag.
	writeJSON(w, http.StatusOK, map[string]any{"analysis": analysis})
}
