// Package textextract provides best-effort text extraction from uploaded
// documents using an Apache Tika server. Extraction never fails a request:
// every error path yields empty text.
package textextract

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// mimeByExtension maps supported upload extensions to their MIME type.
// Anything outside this table yields empty text.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Config holds the text extraction configuration.
type Config struct {
	// TikaURL is the URL of the Tika server (e.g. http://localhost:9998).
	// Extraction is disabled when empty.
	TikaURL string
	// Timeout is the HTTP timeout for Tika server requests.
	Timeout time.Duration
}

// Extractor turns uploaded binary blobs into plain text.
type Extractor interface {
	// Extract returns the document's plain text, or "" when the file kind is
	// unsupported or extraction fails.
	Extract(ctx context.Context, filename string, data []byte) string
}

type tikaExtractor struct {
	config     *Config
	httpClient *http.Client
}

// New creates a Tika-backed extractor.
func New(config *Config) Extractor {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &tikaExtractor{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (e *tikaExtractor) Extract(ctx context.Context, filename string, data []byte) string {
	if e.config.TikaURL == "" || len(data) == 0 {
		return ""
	}

	contentType, ok := mimeByExtension[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.config.TikaURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/plain")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		slog.Warn("tika request failed", "filename", filename, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("tika returned non-OK status", "filename", filename, "status", resp.StatusCode)
		return ""
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("failed to read tika response", "filename", filename, "error", err)
		return ""
	}
	return strings.TrimSpace(string(text))
}

// Disabled returns an extractor that always yields empty text.
func Disabled() Extractor {
	return New(&Config{})
}
