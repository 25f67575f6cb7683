package bench_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
	"github.com/Sumatoshi-tech/codecbench/pkg/codec"
)

func TestRunner_ImageResult(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	data := pngFixture(t, 10, 10, true)
	writeFile(t, fs, "/imgs/a.png", data)

	ref := &identityCodec{name: "ident"}
	runner, err := bench.NewRunner(fs, newRegistry(t, ref), referenceOnly(2))
	require.NoError(t, err)

	res, err := runner.Image(context.Background(), "/imgs/a.png")
	require.NoError(t, err)

	assert.Equal(t, uint32(1), res.Count)
	assert.Equal(t, uint64(len(data)), res.DiskSize)
	assert.Equal(t, uint64(100), res.Pixels)
	assert.Equal(t, uint64(4), res.Channels)
	assert.Equal(t, uint64(400), res.RawSize)
	assert.Equal(t, uint64(10), res.Width)
	assert.Equal(t, uint64(10), res.Height)

	require.Contains(t, res.Samples, "ident")
	assert.Equal(t, uint64(len("ident:")+400), res.Samples["ident"].EncodedSize)
}

func TestRunner_OpaqueImageKeepsThreeChannels(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/imgs/b.png", pngFixture(t, 5, 5, false))

	runner, err := bench.NewRunner(fs, newRegistry(t, &identityCodec{name: "ident"}), referenceOnly(1))
	require.NoError(t, err)

	res, err := runner.Image(context.Background(), "/imgs/b.png")
	require.NoError(t, err)

	assert.Equal(t, uint64(3), res.Channels)
	assert.Equal(t, uint64(75), res.RawSize)
}

func TestRunner_WarmupExclusion(t *testing.T) {
	t.Parallel()

	const warmupStep = 1000 * time.Nanosecond

	tests := []struct {
		name   string
		warmup bool
		steps  []time.Duration
		want   uint64
	}{
		{
			name:   "warmup_discarded",
			warmup: true,
			steps:  []time.Duration{warmupStep, 10, 10, 10, 10, 10},
			want:   10,
		},
		{
			name:   "every_iteration_counted",
			warmup: false,
			steps:  []time.Duration{warmupStep, 10, 10, 10, 10},
			want:   (1000 + 4*10) / 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			writeFile(t, fs, "/imgs/a.png", pngFixture(t, 4, 4, true))

			opts := referenceOnly(5)
			opts.Warmup = tt.warmup
			opts.Encode = false

			clock := &stepClock{now: time.Unix(0, 0), steps: tt.steps}
			runner, err := bench.NewRunner(fs, newRegistry(t, &identityCodec{name: "ident"}), opts,
				bench.WithClock(clock.Now))
			require.NoError(t, err)

			res, err := runner.Image(context.Background(), "/imgs/a.png")
			require.NoError(t, err)

			assert.Equal(t, tt.want, res.Samples["ident"].DecodeNanos)
			assert.Zero(t, res.Samples["ident"].EncodeNanos)
			assert.Equal(t, 2*len(tt.steps), clock.calls)
		})
	}
}

func TestRunner_DecodeInputSelection(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	data := pngFixture(t, 3, 3, true)
	writeFile(t, fs, "/imgs/a.png", data)

	ref := &identityCodec{name: "ident"}
	native := &identityCodec{name: "native", format: "png"}
	other := &identityCodec{name: "other"}

	opts := referenceOnly(1)
	opts.Compare = true
	opts.Codecs = []string{"native", "other"}
	opts.Verify = false
	opts.Warmup = false
	opts.Encode = false

	runner, err := bench.NewRunner(fs, newRegistry(t, ref, native, other), opts)
	require.NoError(t, err)

	_, err = runner.Image(context.Background(), "/imgs/a.png")
	require.NoError(t, err)

	require.Len(t, native.decoded, 1)
	assert.Equal(t, data, native.decoded[0])

	require.Len(t, other.decoded, 1)
	assert.Equal(t, []byte("other:"), other.decoded[0][:len("other:")])

	require.Len(t, ref.decoded, 1)
	assert.Equal(t, []byte("ident:"), ref.decoded[0][:len("ident:")])
}

func TestRunner_RoundTripMismatch(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/imgs/a.png", pngFixture(t, 4, 4, true))

	reg := newRegistry(t, &identityCodec{name: "ident", corrupt: true})

	runner, err := bench.NewRunner(fs, reg, referenceOnly(1))
	require.NoError(t, err)

	_, err = runner.Image(context.Background(), "/imgs/a.png")
	require.ErrorIs(t, err, bench.ErrRoundTrip)
	assert.Contains(t, err.Error(), "/imgs/a.png")

	opts := referenceOnly(1)
	opts.Verify = false

	unverified, err := bench.NewRunner(fs, reg, opts)
	require.NoError(t, err)

	_, err = unverified.Image(context.Background(), "/imgs/a.png")
	require.NoError(t, err)
}

func TestRunner_LoadAndDecodeErrors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/imgs/broken.png", []byte("not a png at all"))

	runner, err := bench.NewRunner(fs, newRegistry(t, &identityCodec{name: "ident"}), referenceOnly(1))
	require.NoError(t, err)

	_, err = runner.Image(context.Background(), "/imgs/missing.png")
	require.ErrorIs(t, err, bench.ErrLoad)

	_, err = runner.Image(context.Background(), "/imgs/broken.png")
	require.ErrorIs(t, err, bench.ErrDecode)
}

func TestRunner_RealCodecs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/imgs/a.png", pngFixture(t, 8, 6, true))

	reg, err := codec.Default()
	require.NoError(t, err)

	opts := bench.DefaultOptions()
	opts.Codecs = reg.Names()

	runner, err := bench.NewRunner(fs, reg, opts)
	require.NoError(t, err)

	res, err := runner.Image(context.Background(), "/imgs/a.png")
	require.NoError(t, err)

	assert.Len(t, res.Samples, len(reg.Names()))

	for name, sample := range res.Samples {
		assert.Positive(t, sample.EncodedSize, name)
	}
}

func TestNewRunner_UnknownCodec(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, &identityCodec{name: "ident"})

	opts := referenceOnly(1)
	opts.Reference = "nope"

	_, err := bench.NewRunner(afero.NewMemMapFs(), reg, opts)
	require.ErrorIs(t, err, codec.ErrUnknown)

	opts = referenceOnly(1)
	opts.Compare = true
	opts.Codecs = []string{"nope"}

	_, err = bench.NewRunner(afero.NewMemMapFs(), reg, opts)
	require.ErrorIs(t, err, codec.ErrUnknown)
}
