package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/codecbench/pkg/safeconv"
)

const (
	metricImagesTotal    = "codecbench.images"
	metricFailuresTotal  = "codecbench.failures"
	metricTrialDuration  = "codecbench.trial.duration"
	metricEncodedBytes   = "codecbench.encoded.size"
	metricRawBytes       = "codecbench.raw.size"
	metricPixelsTotal    = "codecbench.pixels"
	attrCodec            = "codec"
	attrOp               = "op"
	attrReason           = "reason"
	opEncode             = "encode"
	opDecode             = "decode"
	durationBucketsUnits = "s"
)

// trialBucketBoundaries covers 10µs to 5s, the range between a tiny icon and
// a very large photo through a slow encoder.
var trialBucketBoundaries = []float64{
	0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5,
}

// BenchMetrics holds the OTel instruments recorded during a benchmark run.
// A nil *BenchMetrics is valid and records nothing.
type BenchMetrics struct {
	images        metric.Int64Counter
	failures      metric.Int64Counter
	pixels        metric.Int64Counter
	rawBytes      metric.Int64Counter
	encodedBytes  metric.Int64Counter
	trialDuration metric.Float64Histogram
}

// NewBenchMetrics creates the benchmark instruments from mt.
func NewBenchMetrics(mt metric.Meter) (*BenchMetrics, error) {
	b := newMetricBuilder(mt)

	bm := &BenchMetrics{
		images:       b.counter(metricImagesTotal, "Images benchmarked", "{image}"),
		failures:     b.counter(metricFailuresTotal, "Images that aborted the run", "{image}"),
		pixels:       b.counter(metricPixelsTotal, "Pixels benchmarked", "{pixel}"),
		rawBytes:     b.counter(metricRawBytes, "Raw pixel bytes benchmarked", "By"),
		encodedBytes: b.counter(metricEncodedBytes, "Encoded bytes produced per codec", "By"),
		trialDuration: b.histogram(metricTrialDuration,
			"Average duration of one counted trial", durationBucketsUnits, trialBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return bm, nil
}

// RecordImage counts one benchmarked image with its pixel and raw byte totals.
func (bm *BenchMetrics) RecordImage(ctx context.Context, pixels, rawBytes uint64) {
	if bm == nil {
		return
	}

	bm.images.Add(ctx, 1)
	bm.pixels.Add(ctx, safeconv.ClampInt64(pixels))
	bm.rawBytes.Add(ctx, safeconv.ClampInt64(rawBytes))
}

// RecordEncode records the average encode duration and the encoded size for codec.
func (bm *BenchMetrics) RecordEncode(ctx context.Context, codec string, avg time.Duration, size uint64) {
	if bm == nil {
		return
	}

	bm.trialDuration.Record(ctx, avg.Seconds(), metric.WithAttributes(
		attribute.String(attrCodec, codec),
		attribute.String(attrOp, opEncode),
	))
	bm.encodedBytes.Add(ctx, safeconv.ClampInt64(size), metric.WithAttributes(attribute.String(attrCodec, codec)))
}

// RecordDecode records the average decode duration for codec.
func (bm *BenchMetrics) RecordDecode(ctx context.Context, codec string, avg time.Duration) {
	if bm == nil {
		return
	}

	bm.trialDuration.Record(ctx, avg.Seconds(), metric.WithAttributes(
		attribute.String(attrCodec, codec),
		attribute.String(attrOp, opDecode),
	))
}

// RecordFailure counts an image that aborted the run, labelled with a short reason.
func (bm *BenchMetrics) RecordFailure(ctx context.Context, reason string) {
	if bm == nil {
		return
	}

	bm.failures.Add(ctx, 1, metric.WithAttributes(attribute.String(attrReason, reason)))
}
