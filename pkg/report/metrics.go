// Package report renders benchmark results as text tables, a JSON/YAML
// summary document or an HTML page of charts.
package report

import (
	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
	"github.com/Sumatoshi-tech/codecbench/pkg/units"
)

const (
	nanosPerMilli = 1e6
	nanosPerMicro = 1e3
	rgbaChannels  = 4
)

// CodecMetrics are the derived per-codec figures for one result. Times and
// sizes are averages per image; ratios compare summed sizes.
type CodecMetrics struct {
	Codec      string  `json:"codec"       yaml:"codec"`
	DecodeMs   float64 `json:"decode_ms"   yaml:"decode_ms"`
	EncodeMs   float64 `json:"encode_ms"   yaml:"encode_ms"`
	DecodeMpps float64 `json:"decode_mpps" yaml:"decode_mpps"`
	EncodeMpps float64 `json:"encode_mpps" yaml:"encode_mpps"`
	SizeKiB    float64 `json:"size_kib"    yaml:"size_kib"`
	VsRGBA     float64 `json:"vs_rgba"     yaml:"vs_rgba"`
	VsRaw      float64 `json:"vs_raw"      yaml:"vs_raw"`
	VsDisk     float64 `json:"vs_disk"     yaml:"vs_disk"`
}

// Compute derives metrics for each codec in order. Codecs without a sample
// in res are skipped. res is not modified.
func Compute(res bench.Result, codecs []string) []CodecMetrics {
	out := make([]CodecMetrics, 0, len(codecs))

	for _, name := range codecs {
		sample, ok := res.Samples[name]
		if !ok {
			continue
		}

		out = append(out, CodecMetrics{
			Codec:      name,
			DecodeMs:   res.Mean(sample.DecodeNanos) / nanosPerMilli,
			EncodeMs:   res.Mean(sample.EncodeNanos) / nanosPerMilli,
			DecodeMpps: throughput(res.Pixels, sample.DecodeNanos),
			EncodeMpps: throughput(res.Pixels, sample.EncodeNanos),
			SizeKiB:    units.ToKiB(res.Mean(sample.EncodedSize)),
			VsRGBA:     ratio(sample.EncodedSize, res.Pixels*rgbaChannels),
			VsRaw:      ratio(sample.EncodedSize, res.RawSize),
			VsDisk:     ratio(sample.EncodedSize, res.DiskSize),
		})
	}

	return out
}

// throughput is pixels per microsecond, which equals megapixels per second.
func throughput(pixels, nanos uint64) float64 {
	if nanos == 0 {
		return 0
	}

	return float64(pixels) / (float64(nanos) / nanosPerMicro)
}

func ratio(size, base uint64) float64 {
	if base == 0 {
		return 0
	}

	return float64(size) / float64(base)
}
