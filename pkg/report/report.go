package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
)

// ErrUnknownFormat indicates a report format other than text, json, yaml or plot.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects how a run is reported.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPlot Format = "plot"
)

// ParseFormat converts a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatPlot:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Reporter receives a run from start to grand total.
type Reporter interface {
	bench.Reporter
	// Start announces the run before any image is benchmarked.
	Start(root string, opts bench.Options) error
	// Total renders the grand total and completes the report.
	Total(res bench.Result) error
}

// New creates the reporter for format writing to w. codecs fixes the row
// order; noColor disables coloured headings in text output.
func New(format Format, w io.Writer, codecs []string, noColor bool) (Reporter, error) {
	switch format {
	case FormatText:
		return NewText(w, codecs, noColor), nil
	case FormatJSON, FormatYAML:
		return NewStructured(w, format, codecs), nil
	case FormatPlot:
		return NewPlot(w, codecs), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
