package bench

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/codecbench/pkg/dirtree"
	"github.com/Sumatoshi-tech/codecbench/pkg/list"
)

// ImageRunner benchmarks one image file.
type ImageRunner interface {
	Image(ctx context.Context, path string) (Result, error)
}

// Reporter renders results as they are produced.
type Reporter interface {
	// Image renders a single image result.
	Image(path string, res Result) error
	// Directory renders the total of the images directly inside path.
	Directory(path string, res Result) error
}

// Aggregator walks a scanned tree, benchmarks qualifying files and folds
// their results into directory and grand totals.
type Aggregator struct {
	runner   ImageRunner
	reporter Reporter
	opts     Options
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewAggregator creates an aggregator. A nil logger or tracer disables it.
func NewAggregator(
	runner ImageRunner, reporter Reporter, opts Options, logger *slog.Logger, tracer trace.Tracer,
) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Aggregator{runner: runner, reporter: reporter, opts: opts, logger: logger, tracer: tracer}
}

// Directory benchmarks the tree rooted at path depth-first. Sub-directories
// run before the files beside them. Every image is added to grand. The
// returned total covers only the images directly inside path; sub-directory
// totals are rendered on their own and never folded into it.
func (a *Aggregator) Directory(
	ctx context.Context, path string, entries *list.List[dirtree.Entry], grand *Result,
) (Result, error) {
	ctx, span := a.tracer.Start(ctx, "codecbench.directory", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	if a.opts.Recurse {
		for entry := range entries.Values() {
			if !entry.IsDir {
				continue
			}

			_, err := a.Directory(ctx, filepath.Join(path, entry.Name), entry.Children, grand)
			if err != nil {
				return Result{}, err
			}
		}
	}

	var total Result

	for entry := range entries.Values() {
		if entry.IsDir || !a.opts.Matches(entry.Name) {
			continue
		}

		err := ctx.Err()
		if err != nil {
			return Result{}, fmt.Errorf("benchmark interrupted: %w", err)
		}

		file := filepath.Join(path, entry.Name)

		res, err := a.runner.Image(ctx, file)
		if err != nil {
			return Result{}, err
		}

		if !a.opts.OnlyTotals {
			err = a.reporter.Image(file, res)
			if err != nil {
				return Result{}, fmt.Errorf("report %s: %w", file, err)
			}
		}

		total.Add(res)
		grand.Add(res)
	}

	span.SetAttributes(attribute.Int("images", int(total.Count)))

	if total.Count == 0 {
		return total, nil
	}

	a.logger.InfoContext(ctx, "directory benchmarked", slog.String("path", path), slog.Any("images", total.Count))

	err := a.reporter.Directory(path, total)
	if err != nil {
		return Result{}, fmt.Errorf("report %s: %w", path, err)
	}

	return total, nil
}
