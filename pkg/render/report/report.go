// Package report renders a placement plan as an interactive HTML
// scatter chart.
//
// Unlike the static map from mapplot, the report is meant for
// inspecting a run: hovering a point shows its storm label, anchors
// are a separate toggleable series, and unresolved placements get
// their own series so overlaps stand out.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/plan"
)

// categoryColors mirrors the mapplot palette so the report and the map
// read the same.
var categoryColors = [6]string{
	"#9e9e9e", "#4f8fdd", "#3db56e", "#e8c23a", "#e87c2a", "#cf2f2f",
}

// Render writes the HTML report for a plan document to w.
func Render(doc *plan.Document, w io.Writer) error {
	if doc == nil || doc.Result == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil plan document")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Hurricane Landfall Placement",
			Width:     "1200px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Hurricane Landfall Placement",
			Subtitle: fmt.Sprintf("run=%s clusters=%d placed=%d unresolved=%d skipped=%d",
				doc.RunID,
				doc.Result.Stats.Clusters,
				doc.Result.Stats.Placed,
				doc.Result.Stats.Unresolved,
				doc.Result.Stats.Skipped),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: opts.FuncOpts("function (p) { return p.seriesName + '<br/>' + p.data.name; }")}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", NameLocation: "middle", NameGap: 30}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	addLandfallSeries(scatter, doc)
	addAnchorSeries(scatter, doc)

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render report")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write report")
	}
	return nil
}

// RenderFile writes the HTML report to a file at path.
func RenderFile(doc *plan.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Render(doc, f)
}

// addLandfallSeries adds one scatter series per category so the legend
// doubles as a category filter.
func addLandfallSeries(scatter *charts.Scatter, doc *plan.Document) {
	byCat := make(map[int][]opts.ScatterData)
	for _, c := range doc.Clusters {
		for i, pt := range c.Points {
			cat := 0
			if i < len(c.Categories) {
				cat = c.Categories[i]
			}
			if cat < 0 || cat >= len(categoryColors) {
				cat = 0
			}
			name := ""
			if i < len(c.Labels) {
				name = c.Labels[i]
			}
			byCat[cat] = append(byCat[cat], opts.ScatterData{
				Name:  name,
				Value: []interface{}{pt.X, pt.Y},
			})
		}
	}

	for cat := 1; cat < len(categoryColors); cat++ {
		if data, ok := byCat[cat]; ok {
			scatter.AddSeries(fmt.Sprintf("Cat %d", cat), data,
				charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: categoryColors[cat]}),
			)
		}
	}
	if data, ok := byCat[0]; ok {
		scatter.AddSeries("Other", data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: categoryColors[0]}),
		)
	}
}

// addAnchorSeries adds box anchors, splitting unresolved placements
// into their own series.
func addAnchorSeries(scatter *charts.Scatter, doc *plan.Document) {
	var placed, unresolved []opts.ScatterData
	for _, pl := range doc.Result.Placements {
		center := pl.Box.Rect(pl.Anchor)
		d := opts.ScatterData{
			Name:   fmt.Sprintf("cluster %d (%d attempts)", pl.ClusterID, pl.Attempts),
			Value:  []interface{}{(center.Min.X + center.Max.X) / 2, (center.Min.Y + center.Max.Y) / 2},
			Symbol: "rect",
		}
		if pl.Unresolved {
			unresolved = append(unresolved, d)
		} else {
			placed = append(placed, d)
		}
	}

	if len(placed) > 0 {
		scatter.AddSeries("Labels", placed,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#333333"}),
		)
	}
	if len(unresolved) > 0 {
		scatter.AddSeries("Unresolved", unresolved,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#cf2f2f"}),
		)
	}
}
