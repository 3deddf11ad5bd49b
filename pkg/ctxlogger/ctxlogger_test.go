package ctxlogger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandlerAddsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ContextHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	ctx := AppendCtx(context.Background(), slog.String("request_id", "r1"))
	ctx = AppendCtx(ctx, slog.String("session_id", "s1"))
	logger.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "r1", record["request_id"])
	assert.Equal(t, "s1", record["session_id"])
}

func TestAppendCtxDoesNotLeakIntoParent(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("a", "1"))
	_ = AppendCtx(parent, slog.String("b", "2"))

	attrs := parent.Value(slogFields).([]slog.Attr)
	assert.Len(t, attrs, 1)
}
