package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/pkg/correlationid"
)

func TestNewLogger(t *testing.T) {
	t.Run("Should enrich json records with correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})

		ctx := correlationid.NewContext(context.Background(), "req-1")
		logger.With(slog.String("service", "http")).InfoContext(ctx, "product created", slog.String("sku", "WM-001"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "product created", rec["msg"])
		assert.Equal(t, "req-1", rec["correlation_id"])
		assert.Equal(t, "http", rec["service"])
		assert.Equal(t, "WM-001", rec["sku"])
		assert.NotContains(t, rec, "trace_id")
	})

	t.Run("Should respect level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, config.Log{Format: config.LogFormatText, Level: slog.LevelWarn})

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestContextAttrs(t *testing.T) {
	t.Run("Should add trace fields for a valid span context", func(t *testing.T) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x01},
			SpanID:     trace.SpanID{0x02},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		var buf bytes.Buffer
		logger := newLogger(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})
		logger.InfoContext(ctx, "relayed")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, sc.TraceID().String(), rec[traceIDKey])
		assert.Equal(t, sc.SpanID().String(), rec[spanIDKey])
		assert.Equal(t, true, rec[traceSampledKey])
	})

	t.Run("Should add nothing for an empty context", func(t *testing.T) {
		assert.Empty(t, contextAttrs(context.Background()))
	})
}
