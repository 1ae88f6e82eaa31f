package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	documentsExtracted = newCounterVec("format")
	documentsFailed    = newCounterVec("kind")
	rendersTotal       = newCounterVec("template", "format")
	renderFailures     = newCounterVec("kind")
	quotaDenials       = newCounterVec("profile")

	structuredTotal atomic.Uint64

	extractDuration = newHistogram([]float64{10, 50, 100, 250, 500, 1000, 2500, 5000})
	renderDuration  = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500})
)

// IncDocumentExtracted counts a document whose text was extracted.
func IncDocumentExtracted(format string) { documentsExtracted.Inc(format) }

// IncDocumentFailed counts a pipeline failure by taxonomy kind.
func IncDocumentFailed(kind string) { documentsFailed.Inc(kind) }

// IncStructured counts a successful structured extraction.
func IncStructured() { structuredTotal.Add(1) }

// IncRender counts a produced document.
func IncRender(template, format string) { rendersTotal.Inc(template, format) }

func IncRenderFailed(kind string) { renderFailures.Inc(kind) }

func IncQuotaDenied(profile string) { quotaDenials.Inc(profile) }

// ObserveExtractDurationMs records the extraction stage duration.
func ObserveExtractDurationMs(value float64) { extractDuration.Observe(value) }

// ObserveRenderDurationMs records a render duration.
func ObserveRenderDurationMs(value float64) { renderDuration.Observe(value) }

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounterVec(&buf, "documents_extracted_total", "Documents whose text was extracted", documentsExtracted)
	writeCounterVec(&buf, "documents_failed_total", "Ingestion failures by kind", documentsFailed)
	writeCounter(&buf, "structured_extractions_total", "Successful structured extractions", structuredTotal.Load())
	writeCounterVec(&buf, "renders_total", "Rendered documents", rendersTotal)
	writeCounterVec(&buf, "render_failures_total", "Render failures by kind", renderFailures)
	writeCounterVec(&buf, "quota_denials_total", "Requests denied by the quota gate", quotaDenials)
	writeHistogram(&buf, "extract_duration_ms", "Text extraction duration in milliseconds", extractDuration.Snapshot())
	writeHistogram(&buf, "render_duration_ms", "Render duration in milliseconds", renderDuration.Snapshot())
	return buf.String()
}

type counterVec struct {
	labels []string
	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec(labels ...string) *counterVec {
	return &counterVec{labels: labels, values: map[string]uint64{}}
}

func (v *counterVec) Inc(values ...string) {
	key := strings.Join(values, "\x00")
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) snapshot() ([]string, map[string]uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	keys := make([]string, 0, len(v.values))
	for k, n := range v.values {
		out[k] = n
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe places value in the first bucket that holds it; counts are made
// cumulative when written.
func (h *histogram) Observe(value float64) {
	if value < 0 {
		value = 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := v.snapshot()
	for _, key := range keys {
		parts := strings.Split(key, "\x00")
		pairs := make([]string, 0, len(v.labels))
		for i, label := range v.labels {
			val := ""
			if i < len(parts) {
				val = parts[i]
			}
			pairs = append(pairs, fmt.Sprintf("%s=%q", label, val))
		}
		fmt.Fprintf(buf, "%s{%s} %d\n", name, strings.Join(pairs, ","), values[key])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
