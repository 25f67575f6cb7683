// Package commands implements CLI command handlers for codecbench.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
	"github.com/Sumatoshi-tech/codecbench/pkg/codec"
	"github.com/Sumatoshi-tech/codecbench/pkg/config"
	"github.com/Sumatoshi-tech/codecbench/pkg/dirtree"
	"github.com/Sumatoshi-tech/codecbench/pkg/observability"
	"github.com/Sumatoshi-tech/codecbench/pkg/report"
	"github.com/Sumatoshi-tech/codecbench/pkg/safeconv"
	"github.com/Sumatoshi-tech/codecbench/pkg/version"
)

type registryProvider func() (*codec.Registry, error)

// Deps are the collaborators of a benchmark run. Zero fields select the
// production defaults.
type Deps struct {
	// Fs is the filesystem images are read from.
	Fs afero.Fs

	// Registry provides the codecs available to the run.
	Registry registryProvider

	// Now is the trial clock.
	Now func() time.Time

	// LogOutput receives log records. Defaults to stderr.
	LogOutput io.Writer
}

func (d Deps) withDefaults() Deps {
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}

	if d.Registry == nil {
		d.Registry = codec.Default
	}

	if d.Now == nil {
		d.Now = time.Now
	}

	if d.LogOutput == nil {
		d.LogOutput = os.Stderr
	}

	return d
}

// RootCommand holds flags and dependencies for the benchmark command.
type RootCommand struct {
	configPath string
	deps       Deps
}

// NewRootCommand creates the codecbench root command.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithDeps(Deps{})
}

// NewRootCommandWithDeps creates the root command with injected collaborators.
func NewRootCommandWithDeps(deps Deps) *cobra.Command {
	rc := &RootCommand{deps: deps.withDefaults()}

	cmd := &cobra.Command{
		Use:   "codecbench <runs> <root-directory>",
		Short: "Benchmark image codecs over a directory tree",
		Long: `codecbench decodes every image under a directory, then times each registered
codec encoding and decoding its raw pixels. Results are reported per image,
per directory and as a grand total averaged over all images.`,
		Args:          cobra.ExactArgs(2),
		RunE:          rc.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&rc.configPath, "config", "", "Config file (default: ./.codecbench.yaml)")
	flags.Bool("no-warmup", false, "Count every iteration instead of discarding a warmup pass")
	flags.Bool("no-compare", false, "Benchmark only the reference codec")
	flags.Bool("no-verify", false, "Skip reference codec round-trip verification")
	flags.Bool("no-decode", false, "Skip decode trials")
	flags.Bool("no-encode", false, "Skip encode trials")
	flags.Bool("no-recurse", false, "Do not descend into sub-directories")
	flags.Bool("only-totals", false, "Print only directory and grand totals")
	flags.StringSlice("codecs", nil, "Comparison codecs to run (default: all registered)")
	flags.String("reference", config.DefaultReference, "Reference codec used for verification")
	flags.String("ext", config.DefaultExtension, "Image file extension to benchmark")
	flags.String("format", config.DefaultFormat, "Report format: text, json, yaml, plot")
	flags.Bool("no-color", false, "Disable coloured headings")
	flags.String("metrics-file", "", "Write run metrics to this Prometheus textfile")
	flags.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.String("otlp-endpoint", "", "OTLP gRPC endpoint for traces and metrics")
	flags.Bool("otlp-insecure", false, "Disable TLS for the OTLP connection")

	return cmd
}

func (rc *RootCommand) run(cmd *cobra.Command, args []string) (err error) {
	runs, err := config.ParseRuns(args[0])
	if err != nil {
		return err
	}

	root := args[1]

	cfg, err := config.Load(rc.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	cfg.Bench.Runs = runs

	registry, err := rc.deps.Registry()
	if err != nil {
		return fmt.Errorf("build codec registry: %w", err)
	}

	defer func() {
		err = errors.Join(err, registry.Close())
	}()

	err = cfg.Validate(registry.Names())
	if err != nil {
		return err
	}

	obsCfg := cfg.Observability(version.Resolve())
	obsCfg.LogOutput = rc.deps.LogOutput

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		err = errors.Join(err, providers.Shutdown(context.Background()))
	}()

	logger := providers.Logger

	scanner := dirtree.NewScanner(rc.deps.Fs)

	err = scanner.CheckRoot(root)
	if err != nil {
		return err
	}

	entries, err := scanner.Scan(root)
	if err != nil {
		return err
	}

	opts := cfg.Options(registry.Names())
	out := cmd.OutOrStdout()

	images := dirtree.CountFiles(entries, opts.Recurse, opts.Matches)
	if images == 0 {
		fmt.Fprintf(out, "No images found in %s\n", root)

		return nil
	}

	logger.Info("benchmark starting",
		"root", root, "images", humanize.Comma(int64(images)), "runs", opts.Runs, "codecs", opts.Benchmarked())

	metrics, err := observability.NewBenchMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	runner, err := bench.NewRunner(rc.deps.Fs, registry, opts,
		bench.WithClock(rc.deps.Now),
		bench.WithLogger(logger),
		bench.WithTracer(providers.Tracer),
		bench.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	reporter, err := report.New(cfg.Format(), out, opts.Benchmarked(), cfg.Output.NoColor)
	if err != nil {
		return err
	}

	err = reporter.Start(root, opts)
	if err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var grand bench.Result

	aggregator := bench.NewAggregator(runner, reporter, opts, logger, providers.Tracer)

	_, err = aggregator.Directory(ctx, root, entries, &grand)
	if err != nil {
		return err
	}

	err = reporter.Total(grand)
	if err != nil {
		return fmt.Errorf("write grand total: %w", err)
	}

	logger.Info("benchmark finished", "images", grand.Count, "pixels", humanize.Comma(safeconv.ClampInt64(grand.Pixels)))

	if cfg.Output.MetricsFile != "" {
		return observability.WriteTextfile(cfg.Output.MetricsFile, providers.Registry)
	}

	return nil
}
