package bench_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
)

func sampleResult(scale uint64) bench.Result {
	return bench.Result{
		Count:    1,
		DiskSize: 10 * scale,
		RawSize:  40 * scale,
		Pixels:   10 * scale,
		Width:    5 * scale,
		Height:   2 * scale,
		Channels: 4,
		Samples: map[string]bench.CodecSample{
			"lz4": {EncodedSize: 7 * scale, EncodeNanos: 100 * scale, DecodeNanos: 50 * scale},
		},
	}
}

func TestResult_AddIsPointwise(t *testing.T) {
	t.Parallel()

	var total bench.Result

	total.Add(sampleResult(1))
	total.Add(sampleResult(2))

	assert.Equal(t, bench.Result{
		Count:    2,
		DiskSize: 30,
		RawSize:  120,
		Pixels:   30,
		Width:    15,
		Height:   6,
		Channels: 8,
		Samples: map[string]bench.CodecSample{
			"lz4": {EncodedSize: 21, EncodeNanos: 300, DecodeNanos: 150},
		},
	}, total)
}

func TestResult_AddOrderIndependent(t *testing.T) {
	t.Parallel()

	var forward, backward bench.Result

	forward.Add(sampleResult(1))
	forward.Add(sampleResult(3))

	backward.Add(sampleResult(3))
	backward.Add(sampleResult(1))

	assert.Equal(t, forward, backward)
}

func TestResult_AddMergesDisjointCodecs(t *testing.T) {
	t.Parallel()

	total := sampleResult(1).Clone()
	other := bench.Result{Count: 1, Samples: map[string]bench.CodecSample{"png": {EncodedSize: 3}}}

	total.Add(other)

	assert.Equal(t, uint64(7), total.Samples["lz4"].EncodedSize)
	assert.Equal(t, uint64(3), total.Samples["png"].EncodedSize)
}

func TestResult_CloneDetachesSamples(t *testing.T) {
	t.Parallel()

	orig := sampleResult(1)
	clone := orig.Clone()

	clone.Add(sampleResult(1))

	assert.Equal(t, uint64(7), orig.Samples["lz4"].EncodedSize)
	assert.Equal(t, uint64(14), clone.Samples["lz4"].EncodedSize)
}

func TestResult_Mean(t *testing.T) {
	t.Parallel()

	var total bench.Result

	assert.Zero(t, total.Mean(10))

	total.Add(sampleResult(1))
	total.Add(sampleResult(2))

	assert.InDelta(t, 15.0, total.Mean(total.DiskSize), 1e-9)
}
