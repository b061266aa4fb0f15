package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/configurator/internal/document"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// ParseDocument decodes and validates an inline YAML document, failing the
// test on error.
func ParseDocument(t testing.TB, src string) *document.Document {
	t.Helper()
	doc, err := document.DecodeYAML([]byte(src))
	require.NoError(t, err)
	require.NoError(t, document.Validate(doc))
	return doc
}

// ParseDocumentFile loads and validates a document file, failing the test
// on error.
func ParseDocumentFile(t testing.TB, path string) *document.Document {
	t.Helper()
	doc, err := document.FileSource{Path: path}.Load()
	require.NoError(t, err)
	return doc
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LogBuffer collects log output for assertions. Safe for concurrent use.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogger returns a debug-level text logger writing into a LogBuffer.
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
