package textextract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromTikaServer(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tika", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte("  resume text here \n"))
	}))
	defer server.Close()

	e := New(&Config{TikaURL: server.URL})
	text := e.Extract(context.Background(), "resume.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, "resume text here", text)
	assert.Equal(t, "application/pdf", gotContentType)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("tika should not be called for unsupported kinds")
	}))
	defer server.Close()

	e := New(&Config{TikaURL: server.URL})
	assert.Empty(t, e.Extract(context.Background(), "photo.png", []byte("data")))
	assert.Empty(t, e.Extract(context.Background(), "noextension", []byte("data")))
}

func TestExtractServerErrorYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	e := New(&Config{TikaURL: server.URL})
	assert.Empty(t, e.Extract(context.Background(), "resume.docx", []byte("data")))
}

func TestDisabledExtractor(t *testing.T) {
	e := Disabled()
	assert.Empty(t, e.Extract(context.Background(), "resume.pdf", []byte("%PDF-1.4")))
}
