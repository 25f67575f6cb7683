// Package bench runs timed encode/decode trials over image files and folds
// the results into per-directory and grand totals.
package bench

import "maps"

// CodecSample holds one codec's measurements for an image, or their sums
// across images in an aggregate.
type CodecSample struct {
	EncodedSize uint64 `json:"encoded_size" yaml:"encoded_size"`
	EncodeNanos uint64 `json:"encode_nanos" yaml:"encode_nanos"`
	DecodeNanos uint64 `json:"decode_nanos" yaml:"decode_nanos"`
}

// Add returns the pointwise sum of s and o.
func (s CodecSample) Add(o CodecSample) CodecSample {
	return CodecSample{
		EncodedSize: s.EncodedSize + o.EncodedSize,
		EncodeNanos: s.EncodeNanos + o.EncodeNanos,
		DecodeNanos: s.DecodeNanos + o.DecodeNanos,
	}
}

// Result is the measurement of one image (Count == 1) or the sum over many.
// Stored values are always sums; averages are taken at render time.
type Result struct {
	Count    uint32                 `json:"count"     yaml:"count"`
	DiskSize uint64                 `json:"disk_size" yaml:"disk_size"`
	RawSize  uint64                 `json:"raw_size"  yaml:"raw_size"`
	Pixels   uint64                 `json:"pixels"    yaml:"pixels"`
	Width    uint64                 `json:"width"     yaml:"width"`
	Height   uint64                 `json:"height"    yaml:"height"`
	Channels uint64                 `json:"channels"  yaml:"channels"`
	Samples  map[string]CodecSample `json:"samples"   yaml:"samples"`
}

// Add folds o into r field by field, including every codec sample.
func (r *Result) Add(o Result) {
	r.Count += o.Count
	r.DiskSize += o.DiskSize
	r.RawSize += o.RawSize
	r.Pixels += o.Pixels
	r.Width += o.Width
	r.Height += o.Height
	r.Channels += o.Channels

	if len(o.Samples) == 0 {
		return
	}

	if r.Samples == nil {
		r.Samples = make(map[string]CodecSample, len(o.Samples))
	}

	for name, sample := range o.Samples {
		r.Samples[name] = r.Samples[name].Add(sample)
	}
}

// Clone returns a copy of r that shares no map with it.
func (r Result) Clone() Result {
	r.Samples = maps.Clone(r.Samples)

	return r
}

// Mean divides a summed field by Count. It returns 0 for an empty result.
func (r Result) Mean(sum uint64) float64 {
	if r.Count == 0 {
		return 0
	}

	return float64(sum) / float64(r.Count)
}
