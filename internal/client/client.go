// Package client implements the per-workflow request runtime: local
// validation, a single-flight guard per workflow, failure classification,
// and analytics/toast side effects around each backend call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/astrasemi/astrasemi/internal/model"
	"github.com/astrasemi/astrasemi/internal/notify"
)

const maxResponseBytes = 8 << 20

// Recorder receives one analytics entry per completed or failed operation.
// *analytics.Store satisfies it.
type Recorder interface {
	Record(category model.Category, title string, elapsedSecs float64, status model.Status) (model.ActivityEntry, error)
}

// Client talks to an astrasemi server. Hub and Recorder are optional; a nil
// hub drops toasts and a nil recorder drops analytics.
type Client struct {
	baseURL string
	http    *http.Client
	hub     *notify.Hub
	rec     Recorder
}

// New creates a client for the given server base URL.
func New(baseURL string, hub *notify.Hub, rec Recorder) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
		hub:     hub,
		rec:     rec,
	}
}

// successEnvelope is the payload-level failure flag shared by most endpoints.
type successEnvelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// postJSON sends a JSON body and decodes the response into out, classifying
// every failure mode per the §7-style taxonomy.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &FlowError{Kind: KindClient, Message: "encoding request", Err: err}
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(payload), out)
}

// postMultipart sends a prepared multipart body.
func (c *Client) postMultipart(ctx context.Context, path string, form *bytes.Buffer, contentType string, out any) error {
	return c.do(ctx, http.MethodPost, path, contentType, form, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &FlowError{Kind: KindClient, Message: "creating request", Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport-level failure: the request never completed.
		return &FlowError{Kind: KindNetwork, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &FlowError{Kind: KindNetwork, Message: "reading response", Err: err}
	}

	var env successEnvelope
	_ = json.Unmarshal(data, &env)

	if resp.StatusCode >= 500 {
		return &FlowError{Kind: KindService, Message: serverMessage(env, resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FlowError{Kind: KindClient, Message: serverMessage(env, resp.StatusCode)}
	}
	// 2xx with an explicit success=false is treated as a client error.
	if env.Success != nil && !*env.Success {
		return &FlowError{Kind: KindClient, Message: serverMessage(env, resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &FlowError{Kind: KindClient, Message: "decoding response", Err: err}
		}
	}
	return nil
}

func serverMessage(env successEnvelope, status int) string {
	if env.Error != "" {
		return env.Error
	}
	return fmt.Sprintf("server returned status %d", status)
}

// notifyError surfaces a failure toast; notifySuccess a success toast.
func (c *Client) notifyError(err error) {
	if c.hub != nil {
		c.hub.Error(toastText(err))
	}
}

func (c *Client) notifySuccess(text string) {
	if c.hub != nil {
		c.hub.Success(text)
	}
}

// record appends one analytics entry if a recorder is attached.
func (c *Client) record(category model.Category, title string, elapsedSecs float64, status model.Status) {
	if c.rec == nil {
		return
	}
	_, _ = c.rec.Record(category, title, elapsedSecs, status)
}

// SearchResult is the glossary search response.
type SearchResult struct {
	Terms      []model.GlossaryTerm `json:"terms"`
	Categories []string             `json:"categories"`
}

// SearchGlossary queries the glossary endpoint directly, without debounce.
func (c *Client) SearchGlossary(ctx context.Context, query, category string) (SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if category != "" {
		params.Set("category", category)
	}
	var out SearchResult
	err := c.getJSON(ctx, "/api/glossary/search?"+params.Encode(), &out)
	return out, err
}

// GetTerm fetches one glossary term by identifier.
func (c *Client) GetTerm(ctx context.Context, id string) (model.GlossaryTerm, error) {
	var out struct {
		Term model.GlossaryTerm `json:"term"`
	}
	err := c.getJSON(ctx, "/api/glossary/term/"+url.PathEscape(id), &out)
	return out.Term, err
}

// Explain fetches the AI elaboration for a term.
func (c *Client) Explain(ctx context.Context, term, context_, language string) (string, error) {
	var out struct {
		Explanation string `json:"explanation"`
	}
	err := c.postJSON(ctx, "/api/glossary/ai-explain", map[string]string{
		"term": term, "context": context_, "language": language,
	}, &out)
	return out.Explanation, err
}

// RelatedTerms fetches AI-suggested related terms.
func (c *Client) RelatedTerms(ctx context.Context, term, language string) ([]string, error) {
	var out struct {
		RelatedTerms []string `json:"relatedTerms"`
	}
	err := c.postJSON(ctx, "/api/glossary/related-terms", map[string]string{
		"term": term, "language": language,
	}, &out)
	return out.RelatedTerms, err
}
