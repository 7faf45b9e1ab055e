// Package mapplot renders a placed label map to PNG, SVG, or PDF.
//
// The renderer draws landfall points colored by category, the label
// boxes the placement engine accepted, each box's text lines at their
// computed positions, and optional leader lines from every landfall
// point to its own text line.
// Unresolved placements are outlined dashed so residual overlaps are
// visible in the output.
package mapplot

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/place"
)

// Default canvas parameters.
const (
	DefaultFormat = "png"
	DefaultWidth  = 12.0
	DefaultHeight = 9.0
)

// validFormats is the set of formats plot.WriterTo accepts that we
// expose.
var validFormats = map[string]bool{"png": true, "svg": true, "pdf": true}

// categoryColors maps Saffir-Simpson categories 1-5 to point colors,
// cool to hot. Index 0 is the fallback for unknown categories.
var categoryColors = [6]color.RGBA{
	{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff},
	{R: 0x4f, G: 0x8f, B: 0xdd, A: 0xff},
	{R: 0x3d, G: 0xb5, B: 0x6e, A: 0xff},
	{R: 0xe8, G: 0xc2, B: 0x3a, A: 0xff},
	{R: 0xe8, G: 0x7c, B: 0x2a, A: 0xff},
	{R: 0xcf, G: 0x2f, B: 0x2f, A: 0xff},
}

var (
	boxColor        = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	unresolvedColor = color.RGBA{R: 0xcf, G: 0x2f, B: 0x2f, A: 0xff}
	leaderColor     = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
)

// Options configures one render.
type Options struct {
	// Format is png, svg, or pdf.
	Format string

	// Width and Height are the canvas size in inches.
	Width  float64
	Height float64

	// Title is drawn above the map.
	Title string

	// Leaders draws a line from each landfall point to its text line.
	Leaders bool
}

// DefaultOptions returns the standard render configuration.
func DefaultOptions() Options {
	return Options{
		Format:  DefaultFormat,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Leaders: true,
	}
}

// Validate checks render parameters.
func (o Options) Validate() error {
	if !validFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidConfig, "render format must be png, svg, or pdf, got %q", o.Format)
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render canvas must have positive size, got %vx%v", o.Width, o.Height)
	}
	return nil
}

// Render draws the clusters and their placements onto a single map and
// returns the encoded image.
func Render(clusters []place.Cluster, result *place.Result, opts Options) ([]byte, error) {
	p, err := Build(clusters, result, opts)
	if err != nil {
		return nil, err
	}

	wt, err := p.WriterTo(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, opts.Format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", opts.Format)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.Format)
	}
	return buf.Bytes(), nil
}

// RenderFile renders straight to a file at path.
func RenderFile(clusters []place.Cluster, result *place.Result, opts Options, path string) error {
	p, err := Build(clusters, result, opts)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save %s", path)
	}
	return nil
}

// Build assembles the plot without encoding it. Exposed so callers can
// tweak axes or styling before saving.
func Build(clusters []place.Cluster, result *place.Result, opts Options) (*plot.Plot, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil placement result")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	byID := make(map[int]place.Cluster, len(clusters))
	for _, c := range clusters {
		byID[c.ID] = c
	}

	if err := addPoints(p, clusters); err != nil {
		return nil, err
	}
	for _, pl := range result.Placements {
		if err := addBox(p, pl); err != nil {
			return nil, err
		}
		if opts.Leaders {
			if c, ok := byID[pl.ClusterID]; ok {
				if err := addLeaders(p, pl, c); err != nil {
					return nil, err
				}
			}
		}
	}

	return p, nil
}

// addPoints draws every cluster's landfall points, one scatter per
// category so the legend shows the category scale.
func addPoints(p *plot.Plot, clusters []place.Cluster) error {
	byCat := make(map[int]plotter.XYs)
	for _, c := range clusters {
		for i, pt := range c.Points {
			cat := 0
			if i < len(c.Categories) {
				cat = c.Categories[i]
			}
			if cat < 0 || cat >= len(categoryColors) {
				cat = 0
			}
			byCat[cat] = append(byCat[cat], plotter.XY{X: pt.X, Y: pt.Y})
		}
	}

	for cat := 1; cat < len(categoryColors); cat++ {
		xys, ok := byCat[cat]
		if !ok {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "scatter for category %d", cat)
		}
		s.GlyphStyle.Color = categoryColors[cat]
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(categoryName(cat), s)
	}
	if xys, ok := byCat[0]; ok {
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "scatter for uncategorized points")
		}
		s.GlyphStyle.Color = categoryColors[0]
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return nil
}

// addBox draws one placement: the box outline plus its text lines.
func addBox(p *plot.Plot, pl place.Placement) error {
	rect := pl.Box.Rect(pl.Anchor)
	outline := make(plotter.XYs, 0, 5)
	for _, c := range rect.Corners() {
		outline = append(outline, plotter.XY{X: c.X, Y: c.Y})
	}
	outline = append(outline, outline[0])

	line, err := plotter.NewLine(outline)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "box outline for cluster %d", pl.ClusterID)
	}
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Color = boxColor
	if pl.Unresolved {
		line.LineStyle.Color = unresolvedColor
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	}
	p.Add(line)

	var xys plotter.XYs
	var texts []string
	for _, ln := range pl.Box.Lines {
		at := pl.Anchor.Add(ln.Rel)
		xys = append(xys, plotter.XY{X: at.X, Y: at.Y})
		texts = append(texts, ln.Text)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "labels for cluster %d", pl.ClusterID)
	}
	p.Add(labels)
	return nil
}

// addLeaders draws one line per landfall point, from the point to the
// anchor of its own text line inside the box.
func addLeaders(p *plot.Plot, pl place.Placement, c place.Cluster) error {
	for _, seg := range leaderSegments(pl, c) {
		line, err := plotter.NewLine(plotter.XYs{
			{X: seg[0].X, Y: seg[0].Y},
			{X: seg[1].X, Y: seg[1].Y},
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "leader for cluster %d", pl.ClusterID)
		}
		line.LineStyle.Width = vg.Points(0.5)
		line.LineStyle.Color = leaderColor
		p.Add(line)
	}
	return nil
}

// leaderSegments pairs point i with the absolute position of text line
// i. The estimator builds one line per label, so the counts match; the
// min guard only protects against hand-built placements.
func leaderSegments(pl place.Placement, c place.Cluster) [][2]geo.Point {
	n := len(c.Points)
	if len(pl.Box.Lines) < n {
		n = len(pl.Box.Lines)
	}
	segs := make([][2]geo.Point, 0, n)
	for i := 0; i < n; i++ {
		segs = append(segs, [2]geo.Point{c.Points[i], pl.Anchor.Add(pl.Box.Lines[i].Rel)})
	}
	return segs
}

func categoryName(cat int) string {
	names := [...]string{"Other", "Cat 1", "Cat 2", "Cat 3", "Cat 4", "Cat 5"}
	return names[cat]
}
