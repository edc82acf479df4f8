package model

// CSVAnalysisResult wraps the AI response for one spreadsheet upload.
type CSVAnalysisResult struct {
	Analysis    string     `json:"analysis"`
	DataPreview [][]string `json:"data_preview"`
	TotalRows   int        `json:"total_rows"`
	Columns     []string   `json:"columns"`
	FileName    string     `json:"file_name,omitempty"`
	FileSize    int64      `json:"file_size,omitempty"`
}

// TextOperationResult wraps the AI response for an interpret or convert call.
type TextOperationResult struct {
	Interpretation string `json:"interpretation,omitempty"`
	Converted      string `json:"converted,omitempty"`
	ConvertType    string `json:"convert_type,omitempty"`
}

// ImageAnalysisResult wraps the AI response for one image submission.
type ImageAnalysisResult struct {
	Analysis  string `json:"analysis"`
	MimeType  string `json:"mime_type,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}
