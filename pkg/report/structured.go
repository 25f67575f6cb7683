package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
	"github.com/Sumatoshi-tech/codecbench/pkg/units"
)

const yamlIndent = 2

// Section is one rendered result in a summary document.
type Section struct {
	Path    string         `json:"path,omitempty" yaml:"path,omitempty"`
	Images  uint32         `json:"images"         yaml:"images"`
	Width   float64        `json:"width"          yaml:"width"`
	Height  float64        `json:"height"         yaml:"height"`
	DiskKiB float64        `json:"disk_kib"       yaml:"disk_kib"`
	Codecs  []CodecMetrics `json:"codecs"         yaml:"codecs"`
	Totals  bench.Result   `json:"totals"         yaml:"totals"`
}

// Summary is the machine-readable document for a whole run.
type Summary struct {
	Root        string    `json:"root"        yaml:"root"`
	Runs        int       `json:"runs"        yaml:"runs"`
	Warmup      bool      `json:"warmup"      yaml:"warmup"`
	Reference   string    `json:"reference"   yaml:"reference"`
	Codecs      []string  `json:"codecs"      yaml:"codecs"`
	Directories []Section `json:"directories" yaml:"directories"`
	Total       Section   `json:"total"       yaml:"total"`
}

// NewSection derives a summary section from res.
func NewSection(path string, res bench.Result, codecs []string) Section {
	return Section{
		Path:    path,
		Images:  res.Count,
		Width:   res.Mean(res.Width),
		Height:  res.Mean(res.Height),
		DiskKiB: units.ToKiB(res.Mean(res.DiskSize)),
		Codecs:  Compute(res, codecs),
		Totals:  res.Clone(),
	}
}

// Structured collects directory totals and writes a single JSON or YAML
// document when the grand total arrives. Per-image results are not included.
type Structured struct {
	w       io.Writer
	format  Format
	codecs  []string
	summary Summary
}

// NewStructured creates a JSON or YAML reporter writing to w.
func NewStructured(w io.Writer, format Format, codecs []string) *Structured {
	return &Structured{
		w:       w,
		format:  format,
		codecs:  codecs,
		summary: Summary{Codecs: codecs, Directories: []Section{}},
	}
}

// Start implements Reporter.
func (s *Structured) Start(root string, opts bench.Options) error {
	s.summary.Root = root
	s.summary.Runs = opts.Runs
	s.summary.Warmup = opts.Warmup
	s.summary.Reference = opts.Reference

	return nil
}

// Image implements bench.Reporter.
func (*Structured) Image(string, bench.Result) error { return nil }

// Directory implements bench.Reporter.
func (s *Structured) Directory(path string, res bench.Result) error {
	s.summary.Directories = append(s.summary.Directories, NewSection(path, res, s.codecs))

	return nil
}

// Total implements Reporter.
func (s *Structured) Total(res bench.Result) error {
	s.summary.Total = NewSection("", res, s.codecs)

	return s.encode()
}

// Summary returns the document collected so far.
func (s *Structured) Summary() Summary {
	return s.summary
}

func (s *Structured) encode() error {
	switch s.format {
	case FormatJSON:
		enc := json.NewEncoder(s.w)
		enc.SetIndent("", "  ")

		err := enc.Encode(s.summary)
		if err != nil {
			return fmt.Errorf("encode json summary: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(s.w)
		enc.SetIndent(yamlIndent)

		err := enc.Encode(s.summary)
		if err != nil {
			return fmt.Errorf("encode yaml summary: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("close yaml encoder: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, s.format)
	}

	return nil
}
