package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"
	pageTitle   = "codecbench"
)

// barSeries is one named series over the codec axis.
type barSeries struct {
	Name  string
	Value func(CodecMetrics) float64
}

var (
	throughputSeries = []barSeries{
		{Name: "decode mpps", Value: func(m CodecMetrics) float64 { return m.DecodeMpps }},
		{Name: "encode mpps", Value: func(m CodecMetrics) float64 { return m.EncodeMpps }},
	}
	timeSeries = []barSeries{
		{Name: "decode ms", Value: func(m CodecMetrics) float64 { return m.DecodeMs }},
		{Name: "encode ms", Value: func(m CodecMetrics) float64 { return m.EncodeMs }},
	}
	ratioSeries = []barSeries{
		{Name: "vs rgba", Value: func(m CodecMetrics) float64 { return m.VsRGBA }},
		{Name: "vs raw", Value: func(m CodecMetrics) float64 { return m.VsRaw }},
		{Name: "vs disk", Value: func(m CodecMetrics) float64 { return m.VsDisk }},
	}
)

// Plot renders the run as an HTML page of bar charts when the grand total
// arrives: throughput, time and size ratios for the grand total, then the
// throughput of every directory. Per-image results are not plotted.
type Plot struct {
	w       io.Writer
	codecs  []string
	root    string
	runs    int
	entries []Section
}

// NewPlot creates a plot reporter writing HTML to w.
func NewPlot(w io.Writer, codecs []string) *Plot {
	return &Plot{w: w, codecs: codecs}
}

// Start implements Reporter.
func (p *Plot) Start(root string, opts bench.Options) error {
	p.root = root
	p.runs = opts.Runs

	return nil
}

// Image implements bench.Reporter.
func (*Plot) Image(string, bench.Result) error { return nil }

// Directory implements bench.Reporter.
func (p *Plot) Directory(path string, res bench.Result) error {
	p.entries = append(p.entries, NewSection(path, res, p.codecs))

	return nil
}

// Total implements Reporter.
func (p *Plot) Total(res bench.Result) error {
	total := NewSection("", res, p.codecs)
	subtitle := fmt.Sprintf("%s, %d images, %d runs", p.root, total.Images, p.runs)

	page := components.NewPage()
	page.PageTitle = pageTitle
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		buildBarChart("Throughput (grand total)", subtitle, "Mpx/s", total.Codecs, throughputSeries),
		buildBarChart("Time per image (grand total)", subtitle, "ms", total.Codecs, timeSeries),
		buildBarChart("Encoded size ratio (grand total)", subtitle, "ratio", total.Codecs, ratioSeries),
	)

	for _, dir := range p.entries {
		page.AddCharts(buildBarChart("Throughput: "+dir.Path,
			fmt.Sprintf("%d images", dir.Images), "Mpx/s", dir.Codecs, throughputSeries))
	}

	err := page.Render(p.w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

func buildBarChart(title, subtitle, yAxisLabel string, metrics []CodecMetrics, series []barSeries) *charts.Bar {
	labels := make([]string, len(metrics))
	for i, m := range metrics {
		labels[i] = m.Codec
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "12%", Left: "center"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxisLabel}),
		charts.WithGridOpts(opts.Grid{Top: "25%", ContainLabel: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)

	for _, s := range series {
		data := make([]opts.BarData, len(metrics))
		for i, m := range metrics {
			data[i] = opts.BarData{Value: s.Value(m)}
		}

		bar.AddSeries(s.Name, data)
	}

	return bar
}
