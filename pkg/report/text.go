package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
	"github.com/Sumatoshi-tech/codecbench/pkg/safeconv"
	"github.com/Sumatoshi-tech/codecbench/pkg/units"
)

const grandTotalTitle = "Grand total (AVG)"

var tableHeader = table.Row{
	"", "decode ms", "encode ms", "decode mpps", "encode mpps", "size kb", "vs rgba", "vs raw", "vs disk",
}

// Text writes one heading and table per image and directory total.
type Text struct {
	w       io.Writer
	codecs  []string
	heading *color.Color
}

// NewText creates a text reporter writing to w.
func NewText(w io.Writer, codecs []string, noColor bool) *Text {
	heading := color.New(color.FgCyan, color.Bold)
	if noColor {
		heading.DisableColor()
	}

	return &Text{w: w, codecs: codecs, heading: heading}
}

// Start implements Reporter.
func (t *Text) Start(root string, opts bench.Options) error {
	_, err := t.heading.Fprintf(t.w, "## Benchmarking %s/*%s -- %d runs\n\n", root, opts.Extension, opts.Runs)
	if err != nil {
		return fmt.Errorf("write start: %w", err)
	}

	return nil
}

// Image implements bench.Reporter.
func (t *Text) Image(path string, res bench.Result) error {
	return t.section(path, res)
}

// Directory implements bench.Reporter.
func (t *Text) Directory(path string, res bench.Result) error {
	return t.section("Total for "+path, res)
}

// Total implements Reporter.
func (t *Text) Total(res bench.Result) error {
	_, err := fmt.Fprintf(t.w, "%s images, %s pixels, %s on disk\n",
		humanize.Comma(int64(res.Count)),
		humanize.Comma(safeconv.ClampInt64(res.Pixels)),
		humanize.IBytes(res.DiskSize),
	)
	if err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	return t.section(grandTotalTitle, res)
}

func (t *Text) section(title string, res bench.Result) error {
	_, err := t.heading.Fprintf(t.w, "## %s size: %.0fx%.0f (%d kb)\n",
		title, res.Mean(res.Width), res.Mean(res.Height), units.WholeKiB(uint64(res.Mean(res.DiskSize))))
	if err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	_, err = fmt.Fprintf(t.w, "%s\n\n", t.table(res))
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

func (t *Text) table(res bench.Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false
	tbl.Style().Format.Header = text.FormatLower

	configs := make([]table.ColumnConfig, 0, len(tableHeader)-1)
	for col := 2; col <= len(tableHeader); col++ {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}

	tbl.SetColumnConfigs(configs)
	tbl.AppendHeader(tableHeader)

	for _, m := range Compute(res, t.codecs) {
		tbl.AppendRow(table.Row{
			m.Codec,
			fmt.Sprintf("%.1f", m.DecodeMs),
			fmt.Sprintf("%.1f", m.EncodeMs),
			fmt.Sprintf("%.2f", m.DecodeMpps),
			fmt.Sprintf("%.2f", m.EncodeMpps),
			fmt.Sprintf("%.0f", m.SizeKiB),
			fmt.Sprintf("%.3f", m.VsRGBA),
			fmt.Sprintf("%.3f", m.VsRaw),
			fmt.Sprintf("%.2f", m.VsDisk),
		})
	}

	return tbl.Render()
}
