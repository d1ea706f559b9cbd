package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/preload/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{ApplicationName: "preload-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  telemetry.ProfilerConfig
		want string
	}{
		{"missing server", telemetry.ProfilerConfig{Enabled: true, ApplicationName: "preload"}, "server address"},
		{"missing name", telemetry.ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, "application name"},
		{"unknown type", telemetry.ProfilerConfig{
			Enabled: true, ServerAddress: "http://localhost:4040", ApplicationName: "preload",
			ProfileTypes: []string{"cpu", "heap"},
		}, `"heap"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := telemetry.NewProfiler(tt.cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	types, err := telemetry.ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU, pyroscope.ProfileAllocSpace, pyroscope.ProfileInuseSpace, pyroscope.ProfileGoroutines,
	}, types)

	types, err = telemetry.ParseProfileTypes([]string{" CPU ", "mutex_count", "block_duration"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU, pyroscope.ProfileMutexCount, pyroscope.ProfileBlockDuration,
	}, types)
}

func TestWithProfilingLabels(t *testing.T) {
	labels := telemetry.OperationLabels("reconcile", map[string]string{
		telemetry.ProfilingLabelVariant: "credit_debit_note",
		"document_id":                   "3f1c",
		"Long-Value":                    strings.Repeat("x", 200),
		"empty":                         "",
	})

	var got map[string]string
	telemetry.WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
		got = map[string]string{}
		pprof.ForLabels(ctx, func(k, v string) bool {
			got[k] = v
			return true
		})
	})

	assert.Equal(t, "reconcile", got["operation"])
	assert.Equal(t, "credit_debit_note", got["variant"])
	assert.Len(t, got["long_value"], telemetry.MaxLabelValueLength)
	assert.NotContains(t, got, "document_id")
	assert.NotContains(t, got, "empty")
}

func TestWithProfilingLabels_NoLabels(t *testing.T) {
	called := false
	telemetry.WithProfilingLabels(context.Background(), nil, func(ctx context.Context) {
		called = true
		_, ok := pprof.Label(ctx, "operation")
		assert.False(t, ok)
	})
	assert.True(t, called)
}

func TestEnableSpanProfiles_RequiresTracingAndProfiler(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{ServiceName: "preload-test"}, logger)
	require.NoError(t, err)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{}, logger)
	require.NoError(t, err)

	assert.ErrorContains(t, tp.EnableSpanProfiles(profiler), "tracing")
	assert.False(t, tp.SpanProfilesEnabled())
}
