package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/astrasemi/astrasemi/internal/model"
)

const (
	maxCSVBytes   = 50 << 20
	maxImageBytes = 20 << 20
)

var imageExts = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// flowState carries the single-flight guard shared by all workflows. At most
// one request per workflow instance is outstanding; a second call fails with
// ErrBusy instead of racing.
type flowState struct {
	mu       sync.Mutex
	inFlight bool
}

func (f *flowState) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrBusy
	}
	f.inFlight = true
	return nil
}

func (f *flowState) end() {
	f.mu.Lock()
	f.inFlight = false
	f.mu.Unlock()
}

// CSVFlow drives the spreadsheet analysis workflow.
type CSVFlow struct {
	c        *Client
	Language string

	flowState
	mu     sync.Mutex
	result *model.CSVAnalysisResult
}

// NewCSVFlow creates the CSV workflow bound to a client.
func NewCSVFlow(c *Client) *CSVFlow { return &CSVFlow{c: c} }

// Analyze validates and submits one spreadsheet. Validation failures emit an
// error toast and issue no request.
func (f *CSVFlow) Analyze(ctx context.Context, filename string, data []byte) (*model.CSVAnalysisResult, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	defer f.end()

	if err := validateCSVUpload(filename, data); err != nil {
		f.c.notifyError(err)
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, &FlowError{Kind: KindClient, Message: "building upload", Err: err}
	}
	if _, err := fw.Write(data); err != nil {
		return nil, &FlowError{Kind: KindClient, Message: "building upload", Err: err}
	}
	_ = mw.WriteField("language", f.Language)
	_ = mw.Close()

	title := "CSV analysis: " + filepath.Base(filename)
	started := time.Now()

	var resp struct {
		Analysis    string     `json:"analysis"`
		DataPreview [][]string `json:"data_preview"`
		TotalRows   int        `json:"total_rows"`
		Columns     []string   `json:"columns"`
	}
	if err := f.c.postMultipart(ctx, "/api/analyze-csv", &buf, mw.FormDataContentType(), &resp); err != nil {
		f.c.record(model.CategoryCSV, title, time.Since(started).Seconds(), model.StatusError)
		f.c.notifyError(err)
		return nil, err
	}

	result := &model.CSVAnalysisResult{
		Analysis:    resp.Analysis,
		DataPreview: resp.DataPreview,
		TotalRows:   resp.TotalRows,
		Columns:     resp.Columns,
		FileName:    filepath.Base(filename),
		FileSize:    int64(len(data)),
	}

	f.mu.Lock()
	f.result = result
	f.mu.Unlock()

	f.c.record(model.CategoryCSV, title, time.Since(started).Seconds(), model.StatusSuccess)
	f.c.notifySuccess("CSV analysis complete")
	return result, nil
}

// Result returns the stored result of the last successful analysis.
func (f *CSVFlow) Result() *model.CSVAnalysisResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Reset discards the current result. No other side effects.
func (f *CSVFlow) Reset() {
	f.mu.Lock()
	f.result = nil
	f.mu.Unlock()
}

func validateCSVUpload(filename string, data []byte) error {
	if len(data) == 0 {
		return validationErr("Select a file to analyze")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" && ext != ".xlsx" {
		return validationErr(fmt.Sprintf("%s is not a CSV or XLSX file", filepath.Base(filename)))
	}
	if len(data) > maxCSVBytes {
		return validationErr(fmt.Sprintf("File is %s, the limit is %s",
			humanize.IBytes(uint64(len(data))), humanize.IBytes(maxCSVBytes)))
	}
	return nil
}

// TextFlow drives the interpret and convert workflows.
type TextFlow struct {
	c        *Client
	Language string

	flowState
	mu     sync.Mutex
	result *model.TextOperationResult
}

// NewTextFlow creates the text workflow bound to a client.
func NewTextFlow(c *Client) *TextFlow { return &TextFlow{c: c} }

// Interpret submits free text for interpretation.
func (f *TextFlow) Interpret(ctx context.Context, text string) (*model.TextOperationResult, error) {
	return f.run(ctx, text, "", "/api/interpret-text", "Text interpretation")
}

// Convert submits free text for conversion to an email or a status update.
func (f *TextFlow) Convert(ctx context.Context, text, convertType string) (*model.TextOperationResult, error) {
	if convertType != "email" && convertType != "update" {
		err := validationErr("Conversion type must be email or update")
		f.c.notifyError(err)
		return nil, err
	}
	return f.run(ctx, text, convertType, "/api/convert-text", "Text conversion ("+convertType+")")
}

func (f *TextFlow) run(ctx context.Context, text, convertType, path, title string) (*model.TextOperationResult, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	defer f.end()

	if strings.TrimSpace(text) == "" {
		err := validationErr("Enter some text first")
		f.c.notifyError(err)
		return nil, err
	}

	body := map[string]string{"text": text, "language": f.Language}
	if convertType != "" {
		body["type"] = convertType
	}

	started := time.Now()
	var resp struct {
		Interpretation string `json:"interpretation"`
		Converted      string `json:"converted"`
	}
	if err := f.c.postJSON(ctx, path, body, &resp); err != nil {
		f.c.record(model.CategoryText, title, time.Since(started).Seconds(), model.StatusError)
		f.c.notifyError(err)
		return nil, err
	}

	result := &model.TextOperationResult{
		Interpretation: resp.Interpretation,
		Converted:      resp.Converted,
		ConvertType:    convertType,
	}

	f.mu.Lock()
	f.result = result
	f.mu.Unlock()

	f.c.record(model.CategoryText, title, time.Since(started).Seconds(), model.StatusSuccess)
	f.c.notifySuccess(title + " complete")
	return result, nil
}

// Result returns the stored result of the last successful operation.
func (f *TextFlow) Result() *model.TextOperationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Reset discards the current result.
func (f *TextFlow) Reset() {
	f.mu.Lock()
	f.result = nil
	f.mu.Unlock()
}

// ImageFlow drives the image analysis workflow.
type ImageFlow struct {
	c        *Client
	Language string

	flowState
	mu     sync.Mutex
	result *model.ImageAnalysisResult
}

// NewImageFlow creates the image workflow bound to a client.
func NewImageFlow(c *Client) *ImageFlow { return &ImageFlow{c: c} }

// Analyze validates an image file and submits it as a base64 data URL.
func (f *ImageFlow) Analyze(ctx context.Context, filename string, data []byte) (*model.ImageAnalysisResult, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	defer f.end()

	mimeType, err := validateImageUpload(filename, data)
	if err != nil {
		f.c.notifyError(err)
		return nil, err
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	started := time.Now()
	var resp struct {
		Analysis string `json:"analysis"`
	}
	body := map[string]string{"image": dataURL, "language": f.Language}
	if err := f.c.postJSON(ctx, "/api/analyze", body, &resp); err != nil {
		f.c.record(model.CategoryImage, "Image analysis", time.Since(started).Seconds(), model.StatusError)
		f.c.notifyError(err)
		return nil, err
	}

	result := &model.ImageAnalysisResult{
		Analysis:  resp.Analysis,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
	}

	f.mu.Lock()
	f.result = result
	f.mu.Unlock()

	f.c.record(model.CategoryImage, "Image analysis", time.Since(started).Seconds(), model.StatusSuccess)
	f.c.notifySuccess("Image analysis complete")
	return result, nil
}

// Result returns the stored result of the last successful analysis.
func (f *ImageFlow) Result() *model.ImageAnalysisResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Reset discards the current result.
func (f *ImageFlow) Reset() {
	f.mu.Lock()
	f.result = nil
	f.mu.Unlock()
}

func validateImageUpload(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", validationErr("Select an image to analyze")
	}
	mimeType, ok := imageExts[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", validationErr(fmt.Sprintf("%s is not a supported image", filepath.Base(filename)))
	}
	if len(data) > maxImageBytes {
		return "", validationErr(fmt.Sprintf("Image is %s, the limit is %s",
			humanize.IBytes(uint64(len(data))), humanize.IBytes(maxImageBytes)))
	}
	return mimeType, nil
}
