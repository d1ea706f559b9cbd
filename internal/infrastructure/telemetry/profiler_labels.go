package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
	ProfilingLabelRole      = "role"
	ProfilingLabelOperation = "operation"
	ProfilingLabelVariant   = "variant"
)

// MaxLabelValueLength caps label values to keep profile series bounded
const MaxLabelValueLength = 128

// highCardinalityLabels are dropped: every request would open a new series
var highCardinalityLabels = map[string]bool{
	"user_id":     true,
	"request_id":  true,
	"document_id": true,
	"trace_id":    true,
	"span_id":     true,
}

// WithProfilingLabels runs fn with pprof labels attached, so CPU samples
// taken inside fn can be filtered by them in Pyroscope. The labels are
// visible to pprof.Label on the context passed to fn.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// OperationLabels labels a named unit of work
func OperationLabels(operation string, extra map[string]string) map[string]string {
	labels := make(map[string]string, len(extra)+1)
	for k, v := range extra {
		labels[k] = v
	}
	labels[ProfilingLabelOperation] = operation
	return labels
}

// sanitizeLabels returns sorted key/value pairs without empty or
// high-cardinality entries, values truncated to MaxLabelValueLength
func sanitizeLabels(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, k := range keys {
		v := labels[k]
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "_")
		if key == "" || v == "" || highCardinalityLabels[key] {
			continue
		}
		if len(v) > MaxLabelValueLength {
			v = v[:MaxLabelValueLength]
		}
		pairs = append(pairs, key, v)
	}
	return pairs
}
