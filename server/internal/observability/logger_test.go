package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRequestContextCarriesBaseFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rc := NewRequestContext(logger, "u1")
	require.NotEmpty(t, rc.RequestID)

	rc.Info("chat request received", slog.Int(LogFieldMessageLen, 42))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, rc.RequestID, line[LogFieldRequestID])
	require.Equal(t, "u1", line[LogFieldUserID])
	require.EqualValues(t, 42, line[LogFieldMessageLen])
}

func TestRequestContextErrorIncludesError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rc := NewRequestContext(logger, "u1")
	rc.Error("completion failed", errors.New("connection reset"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "connection reset", line["error"])
	require.Equal(t, "ERROR", line["level"])
}

func TestRequestIDsAreUnique(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	a := NewRequestContext(logger, "u1")
	b := NewRequestContext(logger, "u1")
	require.NotEqual(t, a.RequestID, b.RequestID)
}
