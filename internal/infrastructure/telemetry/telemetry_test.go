package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preload/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	cfg := telemetry.Config{ServiceName: "preload-test"}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, cfg, logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := telemetry.NewLoggerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.ZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestPreloadMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	m, err := telemetry.NewPreloadMetrics(provider.Meter("test"))
	require.NoError(t, err)

	m.RecordDocumentCreated(ctx)
	m.RecordDocumentCreated(ctx)
	m.RecordTransition(ctx, "PENDING", "PRELOADED")
	m.RecordReconciliation(ctx, "standard", 12, 30*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	got := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			got[md.Name] = md.Data
		}
	}

	created, ok := got["preload_documents_created_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, created.DataPoints, 1)
	assert.Equal(t, int64(2), created.DataPoints[0].Value)

	transitions, ok := got["preload_document_transitions_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, transitions.DataPoints, 1)
	to, _ := transitions.DataPoints[0].Attributes.Value(telemetry.AttrToStatus)
	assert.Equal(t, "PRELOADED", to.AsString())

	rows, ok := got["preload_reconciliation_rows"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, rows.DataPoints, 1)
	assert.Equal(t, uint64(1), rows.DataPoints[0].Count)
	assert.Equal(t, 12.0, rows.DataPoints[0].Sum)
}

func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestStartSpan_EndSpan(t *testing.T) {
	rec := withSpanRecorder(t)

	ctx, span := telemetry.StartSpan(context.Background(), "document.preload")
	assert.NotEmpty(t, telemetry.TraceID(ctx))
	telemetry.EndSpan(span, errors.New("boom"))

	_, cancelSpan := telemetry.StartSpan(context.Background(), "document.cancel")
	telemetry.EndSpan(cancelSpan, nil)

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "document.preload", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Len(t, ended[0].Events(), 1)
	assert.Equal(t, codes.Ok, ended[1].Status().Code)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.TraceID(context.Background()))
}

func TestRegisterDBTracing(t *testing.T) {
	rec := withSpanRecorder(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Nanosecond,
		DBName:          "sqlite",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE pings (id INTEGER PRIMARY KEY)").Error)
	var n int64
	require.NoError(t, db.WithContext(context.Background()).Table("pings").Count(&n).Error)

	assert.NotEmpty(t, rec.Ended())
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{}, zaptest.NewLogger(t)))
}
