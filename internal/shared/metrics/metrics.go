package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	pipelineStartedTotal   atomic.Uint64
	pipelineCompletedTotal atomic.Uint64
	pipelineFailedTotal    atomic.Uint64

	upstreamSearchTotal   atomic.Uint64
	upstreamDocumentTotal atomic.Uint64
	upstreamAnalysisTotal atomic.Uint64
	upstreamErrorTotal    atomic.Uint64

	ocrInFlight atomic.Int64

	pipelineDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncPipelineStarted increments the started counter.
func IncPipelineStarted() { pipelineStartedTotal.Add(1) }

// IncPipelineCompleted increments the completed counter.
func IncPipelineCompleted() { pipelineCompletedTotal.Add(1) }

// IncPipelineFailed increments the failed counter.
func IncPipelineFailed() { pipelineFailedTotal.Add(1) }

// IncUpstreamSearch counts an outbound search call.
func IncUpstreamSearch() { upstreamSearchTotal.Add(1) }

// IncUpstreamDocument counts an outbound document fetch.
func IncUpstreamDocument() { upstreamDocumentTotal.Add(1) }

// IncUpstreamAnalysis counts an outbound AI analysis call.
func IncUpstreamAnalysis() { upstreamAnalysisTotal.Add(1) }

// IncUpstreamError counts a failed outbound call.
func IncUpstreamError() { upstreamErrorTotal.Add(1) }

// OCRStarted marks an OCR invocation in flight.
func OCRStarted() { ocrInFlight.Add(1) }

// OCRFinished marks an OCR invocation done.
func OCRFinished() { ocrInFlight.Add(-1) }

// ObservePipelineDurationMs records a pipeline run duration in milliseconds.
func ObservePipelineDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	pipelineDuration.Observe(value)
}

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
	writeCounter(&buf, "cnr_pipeline_started_total", "Total CNR pipeline runs started", pipelineStartedTotal.Load())
	writeCounter(&buf, "cnr_pipeline_completed_total", "Total CNR pipeline runs completed", pipelineCompletedTotal.Load())
	writeCounter(&buf, "cnr_pipeline_failed_total", "Total CNR pipeline runs failed", pipelineFailedTotal.Load())
	writeCounter(&buf, "upstream_search_calls_total", "Total search upstream calls", upstreamSearchTotal.Load())
	writeCounter(&buf, "upstream_document_calls_total", "Total document fetch upstream calls", upstreamDocumentTotal.Load())
	writeCounter(&buf, "upstream_analysis_calls_total", "Total AI analysis upstream calls", upstreamAnalysisTotal.Load())
	writeCounter(&buf, "upstream_errors_total", "Total failed upstream calls", upstreamErrorTotal.Load())
	writeGauge(&buf, "ocr_in_flight", "OCR invocations currently running", ocrInFlight.Load())
	writeHistogram(&buf, "cnr_pipeline_duration_ms", "CNR pipeline duration in milliseconds", pipelineDuration.Snapshot())
	return buf.String()
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

func (h *histogram) Observe(value float64) {
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

func writeGauge(buf *bytes.Buffer, name, help string, value int64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
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
