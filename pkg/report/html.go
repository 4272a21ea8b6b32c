package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/geometry"
	"github.com/kilianp07/wsnlife/core/schedule"
)

func (o Options) init(pageTitle string) opts.Initialization {
	return opts.Initialization{
		PageTitle:  pageTitle,
		Width:      fmt.Sprintf("%dpx", o.Width),
		Height:     fmt.Sprintf("%dpx", o.Height),
		AssetsHost: o.AssetsHost,
	}
}

func scatterData(pts []geometry.Point) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(pts))
	for _, p := range pts {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
	}
	return data
}

// FieldChart builds the field map: live sensors, dead sensors and targets.
func FieldChart(f *field.Field, o Options) *charts.Scatter {
	o.SetDefaults()
	l := NewLayout(f)
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(o.init(o.Title+" - field")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Sensor field",
			Subtitle: fmt.Sprintf("size=%g range=%g live=%d dead=%d targets=%d", l.Size, l.Range, len(l.Live), len(l.Dead), len(l.Targets)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: l.Size, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: l.Size, Name: "Y", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("live sensors", scatterData(l.Live),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2e7d32"}))
	scatter.AddSeries("dead sensors", scatterData(l.Dead),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}))
	scatter.AddSeries("targets", scatterData(l.Targets),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12, Symbol: "diamond"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#c62828"}))
	return scatter
}

// ActivityChart builds the active-sensors-over-time line.
func ActivityChart(trace schedule.Trace, battery int, o Options) *charts.Line {
	o.SetDefaults()
	series := ActivitySeries(trace, battery)
	x := make([]string, 0, len(series))
	y := make([]opts.LineData, 0, len(series))
	for _, p := range series {
		x = append(x, strconv.Itoa(p.Time))
		y = append(y, opts.LineData{Value: p.Active})
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(o.init(o.Title+" - activity")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Active sensors",
			Subtitle: fmt.Sprintf("lifetime=%d steps=%d", len(trace)*battery, len(trace)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Active sensors", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(x).AddSeries("active", y,
		charts.WithLineChartOpts(opts.LineChart{Step: "start"}))
	return line
}

// FieldChartHTML renders the field map as a standalone HTML page.
func FieldChartHTML(w io.Writer, f *field.Field, o Options) error {
	return FieldChart(f, o).Render(w)
}

// ActivityChartHTML renders the activity line as a standalone HTML page.
func ActivityChartHTML(w io.Writer, trace schedule.Trace, battery int, o Options) error {
	return ActivityChart(trace, battery, o).Render(w)
}

// WriteHTML renders both charts on a single page.
func WriteHTML(w io.Writer, f *field.Field, trace schedule.Trace, battery int, o Options) error {
	o.SetDefaults()
	page := components.NewPage().SetPageTitle(o.Title)
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}
	page.AddCharts(FieldChart(f, o), ActivityChart(trace, battery, o))
	return page.Render(w)
}
