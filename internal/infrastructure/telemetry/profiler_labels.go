package telemetry

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelRole       = "role"
	ProfilingLabelOperation  = "operation"
)

// MaxLabelValueLength caps label values so a bad caller cannot blow up
// profile storage
const MaxLabelValueLength = 128

// HighCardinalityLabels are dropped by WithProfilingLabels. Per-record ids
// belong on spans, not on profiles.
var HighCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"member_id":  true,
	"renewal_id": true,
	"job_id":     true,
	"trace_id":   true,
	"span_id":    true,
}

// WithProfilingLabels runs fn with Pyroscope labels attached to its
// goroutine. The labels map is copied, callers may reuse it.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(maps.Clone(labels))
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// HTTPRequestLabels builds the label set for one routed request
func HTTPRequestLabels(controller, route, method, role string) map[string]string {
	labels := make(map[string]string, 4)
	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	if role != "" {
		labels[ProfilingLabelRole] = role
	}
	return labels
}

// OperationLabels labels background work such as an archival retry batch
func OperationLabels(operation string, extra map[string]string) map[string]string {
	labels := make(map[string]string, len(extra)+1)
	maps.Copy(labels, extra)
	labels[ProfilingLabelOperation] = operation
	return labels
}

// sanitizeLabels returns key/value pairs sorted by sanitized key, without
// empty or high-cardinality entries. When two raw keys sanitize to the same
// key the lexically smaller raw key wins.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	type entry struct{ raw, value string }
	byKey := make(map[string]entry, len(labels))
	for raw, value := range labels {
		if value == "" {
			continue
		}
		k := sanitizeLabelKey(raw)
		if k == "" || HighCardinalityLabels[k] {
			continue
		}
		if prev, ok := byKey[k]; ok && prev.raw < raw {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		byKey[k] = entry{raw: raw, value: value}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, byKey[k].value)
	}
	return pairs
}

// sanitizeLabelKey lowercases and keeps [a-z0-9_]
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
