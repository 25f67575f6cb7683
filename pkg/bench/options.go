package bench

import "strings"

// DefaultExtension is the file suffix benchmarked when none is configured.
const DefaultExtension = ".png"

// Options is the immutable policy for one benchmark run.
type Options struct {
	// Runs is the number of counted iterations per trial; at least 1.
	Runs int
	// Warmup adds one leading iteration whose time is discarded.
	Warmup bool
	// Verify round-trips the reference encoding before any trial.
	Verify bool
	// Compare benchmarks Codecs in addition to Reference.
	Compare bool
	// Decode and Encode toggle the two trial phases.
	Decode bool
	Encode bool
	// Recurse descends into sub-directories.
	Recurse bool
	// OnlyTotals suppresses per-image output.
	OnlyTotals bool
	// Extension selects the files to benchmark, matched case-sensitively.
	Extension string
	// Reference is the codec that is verified and always benchmarked.
	Reference string
	// Codecs are the comparison codecs, in report order.
	Codecs []string
}

// DefaultOptions enables every phase with warmup, verification, comparison
// and recursion.
func DefaultOptions() Options {
	return Options{
		Runs:      1,
		Warmup:    true,
		Verify:    true,
		Compare:   true,
		Decode:    true,
		Encode:    true,
		Recurse:   true,
		Extension: DefaultExtension,
		Reference: "lz4",
	}
}

// Benchmarked lists the codecs that run trials in report order: the
// comparison codecs when enabled, then the reference codec.
func (o Options) Benchmarked() []string {
	names := make([]string, 0, len(o.Codecs)+1)

	if o.Compare {
		for _, name := range o.Codecs {
			if name != o.Reference {
				names = append(names, name)
			}
		}
	}

	return append(names, o.Reference)
}

// Matches reports whether a file name carries the configured extension.
// The name must be strictly longer than the extension.
func (o Options) Matches(name string) bool {
	return len(name) > len(o.Extension) && strings.HasSuffix(name, o.Extension)
}

// iterations returns how many times a trial body runs and how many leading
// iterations are discarded.
func (o Options) iterations() (total, skip int) {
	if o.Warmup {
		return o.Runs + 1, 1
	}

	return o.Runs, 0
}
