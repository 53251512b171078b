// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"context"
	"expvar"
	"strings"
	"sync"
	"time"

	"github.com/nicodishanthj/docgen/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

var (
	initOnce sync.Once

	renderTotal     *expvar.Map
	renderFailures  *expvar.Map
	renderLatencyMS *expvar.Int
	renderBytes     *expvar.Int

	generationTotal     *expvar.Map
	generationErrors    *expvar.Map
	generationLatencyMS *expvar.Int

	sweepRuns    *expvar.Int
	sweepRemoved *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		renderTotal = expvar.NewMap("docgen_render_total")
		renderFailures = expvar.NewMap("docgen_render_failures_total")
		renderLatencyMS = expvar.NewInt("docgen_render_latency_ms")
		renderBytes = expvar.NewInt("docgen_render_bytes_total")

		generationTotal = expvar.NewMap("docgen_generation_total")
		generationErrors = expvar.NewMap("docgen_generation_errors_total")
		generationLatencyMS = expvar.NewInt("docgen_generation_latency_ms")

		sweepRuns = expvar.NewInt("docgen_sweep_runs_total")
		sweepRemoved = expvar.NewInt("docgen_sweep_removed_total")
	})
}

// StartSpan logs the start of name at debug level and returns a func that
// logs its duration.
func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...any)) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...any) {
		logger.Debug("trace: end", append([]any{"span", name, "dur", time.Since(sp.start)}, attrs...)...)
	}
}

// SpanDuration reports how long the span carried by ctx has been open.
func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}

// RecordRender counts a finished render for docType.
func RecordRender(docType string, bytes int64, duration time.Duration) {
	ensureInit()
	renderTotal.Add(key(docType, "general"), 1)
	if bytes > 0 {
		renderBytes.Add(bytes)
	}
	if duration > 0 {
		renderLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordRenderFailure counts a render rejected for reason.
func RecordRenderFailure(reason string) {
	ensureInit()
	renderFailures.Add(key(reason, "unknown"), 1)
}

// RecordGeneration counts a call to the generation provider.
func RecordGeneration(provider string, duration time.Duration) {
	ensureInit()
	generationTotal.Add(key(provider, "unknown"), 1)
	if duration > 0 {
		generationLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordGenerationError counts a failed generation by error kind.
func RecordGenerationError(kind string) {
	ensureInit()
	generationErrors.Add(key(kind, "unknown"), 1)
}

// RecordSweep counts one sweep pass and the files it removed.
func RecordSweep(removed int) {
	ensureInit()
	sweepRuns.Add(1)
	if removed > 0 {
		sweepRemoved.Add(int64(removed))
	}
}

func key(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
