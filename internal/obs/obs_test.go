package obs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerAndTracerLifecycle(t *testing.T) {
	Init(false, slog.LevelWarn)

	logger := Logger()
	require.NotNil(t, logger)

	tracer := Tracer("test-component")
	require.NotNil(t, tracer)

	ctx, span := Start(context.Background(), "test-component", "unit-test-span")
	require.NotNil(t, span)
	span.End()

	require.NoError(t, Shutdown(ctx))
}

func TestSpanHandlerPassesThroughWithoutSpan(t *testing.T) {
	h := &spanHandler{next: slog.NewTextHandler(discard{}, nil)}
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "message", 0)
	err := h.Handle(context.Background(), r)
	assert.NoError(t, err)
}
