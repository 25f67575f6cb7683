package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF for probing.
	_ "image/jpeg" // Register JPEG for probing.
	_ "image/png"  // Register PNG for probing.
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	_ "golang.org/x/image/bmp"  // Register BMP for probing.
	_ "golang.org/x/image/tiff" // Register TIFF for probing.
	_ "golang.org/x/image/webp" // Register WebP for probing.

	"github.com/Sumatoshi-tech/codecbench/pkg/codec"
	"github.com/Sumatoshi-tech/codecbench/pkg/observability"
	"github.com/Sumatoshi-tech/codecbench/pkg/safeconv"
)

// Sentinel errors. Each failure names the image path.
var (
	// ErrLoad indicates the image file could not be read.
	ErrLoad = errors.New("load image")
	// ErrDecode indicates the image or a codec's output could not be decoded.
	ErrDecode = errors.New("decode image")
	// ErrEncode indicates a codec failed to encode the raw pixels.
	ErrEncode = errors.New("encode image")
	// ErrRoundTrip indicates the reference codec did not reproduce the raw pixels.
	ErrRoundTrip = errors.New("round-trip mismatch")
)

// Runner benchmarks single images. It is not safe for concurrent use because
// codecs may keep internal state between calls.
type Runner struct {
	fs        afero.Fs
	opts      Options
	reference codec.Codec
	codecs    []codec.Codec
	now       func() time.Time
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *observability.BenchMetrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock replaces the monotonic clock used to time trials.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// WithLogger sets the logger for per-image progress.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTracer sets the tracer that spans each image.
func WithTracer(tracer trace.Tracer) RunnerOption {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// WithMetrics records per-image and per-codec measurements.
func WithMetrics(metrics *observability.BenchMetrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = metrics
	}
}

// NewRunner resolves the codecs named by opts against reg. Files are read
// from fs.
func NewRunner(fs afero.Fs, reg *codec.Registry, opts Options, options ...RunnerOption) (*Runner, error) {
	r := &Runner{
		fs:     fs,
		opts:   opts,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
		tracer: nooptrace.NewTracerProvider().Tracer(""),
	}

	for _, opt := range options {
		opt(r)
	}

	ref, err := reg.Get(opts.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference codec: %w", err)
	}

	r.reference = ref

	for _, name := range opts.Benchmarked() {
		c, getErr := reg.Get(name)
		if getErr != nil {
			return nil, fmt.Errorf("comparison codec: %w", getErr)
		}

		r.codecs = append(r.codecs, c)
	}

	return r, nil
}

// source is one image loaded for benchmarking.
type source struct {
	data     []byte
	format   string
	pix      []byte
	width    int
	height   int
	channels int
	baseline []byte
}

// Image benchmarks the file at path with every enabled codec.
func (r *Runner) Image(ctx context.Context, path string) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "codecbench.image", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	res, err := r.image(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image failed")
		r.metrics.RecordFailure(ctx, failureReason(err))

		return Result{}, err
	}

	r.metrics.RecordImage(ctx, res.Pixels, res.RawSize)

	return res, nil
}

func (r *Runner) image(ctx context.Context, path string) (Result, error) {
	src, err := r.load(path)
	if err != nil {
		return Result{}, err
	}

	if r.opts.Verify {
		err = r.verify(path, src)
		if err != nil {
			return Result{}, err
		}
	}

	res := Result{
		Count:    1,
		DiskSize: safeconv.MustIntToUint64(len(src.data)),
		RawSize:  safeconv.MustIntToUint64(len(src.pix)),
		Pixels:   safeconv.MustIntToUint64(src.width * src.height),
		Width:    safeconv.MustIntToUint64(src.width),
		Height:   safeconv.MustIntToUint64(src.height),
		Channels: safeconv.MustIntToUint64(src.channels),
		Samples:  make(map[string]CodecSample, len(r.codecs)),
	}

	for _, c := range r.codecs {
		sample, codecErr := r.codec(ctx, path, c, src)
		if codecErr != nil {
			return Result{}, codecErr
		}

		res.Samples[c.Name()] = sample
	}

	r.logger.InfoContext(ctx, "image benchmarked",
		slog.String("path", path),
		slog.Int("width", src.width),
		slog.Int("height", src.height),
		slog.Int("channels", src.channels),
	)

	return res, nil
}

// load reads the file, decodes it to raw pixels and encodes the reference
// baseline. None of this is timed.
func (r *Runner) load(path string) (source, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return source{}, fmt.Errorf("%w %s: %w", ErrLoad, path, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return source{}, fmt.Errorf("%w %s: probe header: %w", ErrDecode, path, err)
	}

	channels := codec.NormalizeChannels(codec.SourceChannels(cfg.ColorModel))

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return source{}, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}

	pix, err := codec.Pack(img, channels)
	if err != nil {
		return source{}, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}

	bounds := img.Bounds()
	src := source{
		data:     data,
		format:   format,
		pix:      pix,
		width:    bounds.Dx(),
		height:   bounds.Dy(),
		channels: channels,
	}

	src.baseline, err = r.reference.Encode(pix, src.width, src.height, channels)
	if err != nil {
		return source{}, fmt.Errorf("%w %s: %s: %w", ErrEncode, path, r.reference.Name(), err)
	}

	return src, nil
}

func (r *Runner) verify(path string, src source) error {
	out, err := r.reference.Decode(src.baseline, src.channels)
	if err != nil {
		return fmt.Errorf("%w %s: %s decode: %w", ErrRoundTrip, path, r.reference.Name(), err)
	}

	if !bytes.Equal(out, src.pix) {
		return fmt.Errorf("%w %s: %s output differs from the source pixels", ErrRoundTrip, path, r.reference.Name())
	}

	return nil
}

// codec runs the decode and encode trials for one codec.
func (r *Runner) codec(ctx context.Context, path string, c codec.Codec, src source) (CodecSample, error) {
	var sample CodecSample

	if r.opts.Decode {
		input, err := r.decodeInput(c, src)
		if err != nil {
			return CodecSample{}, fmt.Errorf("%w %s: %s: %w", ErrEncode, path, c.Name(), err)
		}

		sample.DecodeNanos, err = r.trial(func() error {
			_, decErr := c.Decode(input, src.channels)

			return decErr
		})
		if err != nil {
			return CodecSample{}, fmt.Errorf("%w %s: %s: %w", ErrDecode, path, c.Name(), err)
		}

		r.metrics.RecordDecode(ctx, c.Name(), time.Duration(safeconv.ClampInt64(sample.DecodeNanos)))
	}

	if r.opts.Encode {
		var size int

		nanos, err := r.trial(func() error {
			out, encErr := c.Encode(src.pix, src.width, src.height, src.channels)
			size = len(out)

			return encErr
		})
		if err != nil {
			return CodecSample{}, fmt.Errorf("%w %s: %s: %w", ErrEncode, path, c.Name(), err)
		}

		sample.EncodeNanos = nanos
		sample.EncodedSize = safeconv.MustIntToUint64(size)

		r.metrics.RecordEncode(ctx, c.Name(), time.Duration(safeconv.ClampInt64(nanos)), sample.EncodedSize)
	}

	return sample, nil
}

// decodeInput picks the bytes c decodes during its trials: the file itself
// when c reads the file's format, the baseline for the reference codec, and
// otherwise c's own encoding.
func (r *Runner) decodeInput(c codec.Codec, src source) ([]byte, error) {
	switch {
	case c.Format() != "" && c.Format() == src.format:
		return src.data, nil
	case c.Name() == r.reference.Name():
		return src.baseline, nil
	default:
		return c.Encode(src.pix, src.width, src.height, src.channels)
	}
}

// trial runs fn the configured number of times and returns the mean duration
// of the counted iterations in nanoseconds.
func (r *Runner) trial(fn func() error) (uint64, error) {
	total, skip := r.opts.iterations()

	var elapsed time.Duration

	for i := range total {
		start := r.now()
		err := fn()
		took := r.now().Sub(start)

		if err != nil {
			return 0, err
		}

		if i >= skip {
			elapsed += took
		}
	}

	return safeconv.DurationNanos(int64(elapsed)) / safeconv.MustIntToUint64(r.opts.Runs), nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrLoad):
		return "load"
	case errors.Is(err, ErrRoundTrip):
		return "round_trip"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEncode):
		return "encode"
	default:
		return "other"
	}
}
