package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/astrasemi/astrasemi/internal/analytics"
	"github.com/astrasemi/astrasemi/internal/config"
	"github.com/astrasemi/astrasemi/internal/glossary"
	"github.com/astrasemi/astrasemi/internal/model"
	"github.com/astrasemi/astrasemi/internal/notify"
)

// stubAI counts calls and returns canned content or a fixed error.
type stubAI struct {
	chatCalls  int
	imageCalls int
	reply      string
	err        error
}

func (a *stubAI) Chat(_ context.Context, _, _ string) (string, error) {
	a.chatCalls++
	return a.reply, a.err
}

func (a *stubAI) AnalyzeImage(_ context.Context, _, _ string) (string, error) {
	a.imageCalls++
	return a.reply, a.err
}

type testEnv struct {
	srv   *httptest.Server
	ai    *stubAI
	store *analytics.Store
}

func newTestEnv(t *testing.T, ai *stubAI) testEnv {
	t.Helper()

	store, err := analytics.Open(filepath.Join(t.TempDir(), "activity.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ix, err := glossary.Load()
	if err != nil {
		t.Fatalf("loading glossary: %v", err)
	}

	hub := notify.NewHub(time.Minute)
	t.Cleanup(hub.Close)

	var client AIClient
	if ai != nil {
		client = ai
	}
	s := New(config.DefaultConfig(), client, ix, store, hub)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return testEnv{srv: srv, ai: ai, store: store}
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp, decoded
}

func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.WriteString(fw, content)
	_ = mw.WriteField("language", "English")
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestInterpretTextSuccess(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "machine on line 3 is likely down for maintenance"})

	resp, body := postJSON(t, env.srv.URL+"/api/interpret-text", map[string]string{
		"text": "machine down line 3", "language": "English",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	if !strings.Contains(body["interpretation"].(string), "line 3") {
		t.Errorf("interpretation = %v", body["interpretation"])
	}

	// A second identical call is independent: two requests, two entries.
	_, _ = postJSON(t, env.srv.URL+"/api/interpret-text", map[string]string{
		"text": "machine down line 3", "language": "English",
	})
	if env.ai.chatCalls != 2 {
		t.Errorf("chat calls = %d, want 2", env.ai.chatCalls)
	}
	sum, err := env.store.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalCount != 2 {
		t.Errorf("analytics entries = %d, want 2", sum.TotalCount)
	}
}

func TestInterpretTextValidation(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "x"})

	resp, body := postJSON(t, env.srv.URL+"/api/interpret-text", map[string]string{"text": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if env.ai.chatCalls != 0 {
		t.Errorf("validation failure reached the AI (%d calls)", env.ai.chatCalls)
	}
}

func TestConvertTextRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "x"})

	resp, _ := postJSON(t, env.srv.URL+"/api/convert-text", map[string]string{
		"text": "note", "type": "poem",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if env.ai.chatCalls != 0 {
		t.Error("invalid type reached the AI")
	}
}

func TestConvertTextSuccess(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "Subject: line 3 status"})

	resp, body := postJSON(t, env.srv.URL+"/api/convert-text", map[string]string{
		"text": "machine down line 3", "type": "email",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["converted"] != "Subject: line 3 status" {
		t.Errorf("converted = %v", body["converted"])
	}
}

func TestAnalyzeCSVRejectsWrongExtension(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "x"})

	buf, contentType := multipartCSV(t, "report.txt", "a,b\n1,2\n")
	resp, err := http.Post(env.srv.URL+"/api/analyze-csv", contentType, buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if env.ai.chatCalls != 0 {
		t.Error("rejected upload still reached the AI")
	}
}

func TestAnalyzeCSVSuccess(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "yield trending down on later lots"})

	csv := "lot_id,yield_pct\nL1,97.1\nL2,96.4\nL3,91.0\nL4,90.2\nL5,89.9\nL6,89.1\nL7,88.8\n"
	buf, contentType := multipartCSV(t, "yield.csv", csv)
	resp, err := http.Post(env.srv.URL+"/api/analyze-csv", contentType, buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body analyzeCSVResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success {
		t.Error("success = false")
	}
	if body.TotalRows != 7 {
		t.Errorf("total_rows = %d, want 7", body.TotalRows)
	}
	if len(body.DataPreview) != 5 {
		t.Errorf("data_preview rows = %d, want 5", len(body.DataPreview))
	}
	if len(body.Columns) != 2 || body.Columns[1] != "yield_pct" {
		t.Errorf("columns = %v", body.Columns)
	}
}

func TestAnalyzeImageSuccessShape(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "this is a FOUP"})

	resp, body := postJSON(t, env.srv.URL+"/api/analyze", map[string]string{
		"image": "data:image/png;base64,iVBORw0KGgo=",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["analysis"] != "this is a FOUP" {
		t.Errorf("analysis = %v", body["analysis"])
	}
	// This endpoint historically carries no success flag.
	if _, present := body["success"]; present {
		t.Error("unexpected success flag on /api/analyze")
	}
	if env.ai.imageCalls != 1 {
		t.Errorf("image calls = %d", env.ai.imageCalls)
	}
}

func TestAnalyzeImageSizeLimit(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "x"})

	// 21 MB of base64 decodes past the 20 MB ceiling.
	big := strings.Repeat("A", 21<<20*4/3)
	resp, _ := postJSON(t, env.srv.URL+"/api/analyze", map[string]string{
		"image": "data:image/jpeg;base64," + big,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if env.ai.imageCalls != 0 {
		t.Error("oversized image reached the AI")
	}
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	env := newTestEnv(t, &stubAI{err: errors.New("model overloaded")})

	resp, body := postJSON(t, env.srv.URL+"/api/interpret-text", map[string]string{"text": "hello"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if body["success"] != false {
		t.Errorf("success = %v", body["success"])
	}

	// The failure still lands in the activity log.
	sum, err := env.store.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalCount != 1 || sum.Entries[0].Status != model.StatusError {
		t.Errorf("failure not recorded: %+v", sum)
	}
}

func TestGlossarySearch(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.srv.URL + "/api/glossary/search?q=wafer")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body glossarySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || len(body.Terms) == 0 {
		t.Fatalf("search failed: %+v", body)
	}
	if len(body.Categories) == 0 {
		t.Error("no categories in response")
	}
}

func TestGlossaryTermLookup(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.srv.URL + "/api/glossary/term/foup")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	resp2, err := http.Get(env.srv.URL + "/api/glossary/term/not-a-term")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("unknown term status = %d, want 404", resp2.StatusCode)
	}
}

func TestGlossaryLookupsRecordActivity(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/api/glossary/search?q=wafer", "/api/glossary/term/foup"} {
		resp, err := http.Get(env.srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, resp.StatusCode)
		}
	}

	// An unknown id is a 404, not an activity.
	resp, err := http.Get(env.srv.URL + "/api/glossary/term/not-a-term")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	sum, err := env.store.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalCount != 2 || len(sum.Entries) != 2 {
		t.Fatalf("summary = %+v, want 2 glossary entries", sum)
	}
	for _, e := range sum.Entries {
		if e.Category != model.CategoryGlossary {
			t.Errorf("entry category = %q, want %q", e.Category, model.CategoryGlossary)
		}
		if e.Status != model.StatusSuccess {
			t.Errorf("entry status = %q", e.Status)
		}
	}
}

func TestGlossaryExplain(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "a FOUP is a sealed wafer carrier"})

	resp, body := postJSON(t, env.srv.URL+"/api/glossary/ai-explain", map[string]string{
		"term": "FOUP", "context": "sealed pod", "language": "English",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["explanation"] != "a FOUP is a sealed wafer carrier" {
		t.Errorf("explanation = %v", body["explanation"])
	}
}

func TestGlossaryRelatedFallsBackToDataset(t *testing.T) {
	// No AI configured: related terms come from the embedded dataset.
	env := newTestEnv(t, nil)

	resp, body := postJSON(t, env.srv.URL+"/api/glossary/related-terms", map[string]string{
		"term": "wafer",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	related, ok := body["relatedTerms"].([]any)
	if !ok || len(related) == 0 {
		t.Errorf("relatedTerms = %v", body["relatedTerms"])
	}
}

func TestGlossaryRelatedParsesAIArray(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "Here you go:\n[\"Wafer\", \"Die\", \"Yield\"]"})

	_, body := postJSON(t, env.srv.URL+"/api/glossary/related-terms", map[string]string{
		"term": "wafer map",
	})
	related, _ := body["relatedTerms"].([]any)
	if len(related) != 3 || related[0] != "Wafer" {
		t.Errorf("relatedTerms = %v", related)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, err := http.Get(env.srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestNoAIConfiguredIs503(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := postJSON(t, env.srv.URL+"/api/interpret-text", map[string]string{"text": "hi"})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestActivityEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubAI{reply: "ok"})

	_, _ = postJSON(t, env.srv.URL+"/api/interpret-text", map[string]string{"text": "hello"})

	resp, err := http.Get(env.srv.URL + "/api/activity")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var sum model.AnalyticsSummary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalCount != 1 || len(sum.Entries) != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestParseJSONStringArray(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`["a","b"]`, 2},
		{"```json\n[\"a\"]\n```", 1},
		{`no array here`, 0},
		{`[1,2]`, 0},
		{`[" ", "x"]`, 1},
	}
	for _, tt := range tests {
		if got := parseJSONStringArray(tt.in); len(got) != tt.want {
			t.Errorf("parseJSONStringArray(%q) = %v, want %d items", tt.in, got, tt.want)
		}
	}
}
