package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stormlabel/stormlabel/pkg/config"
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/plan"
	"github.com/stormlabel/stormlabel/pkg/render/mapplot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file path (derived from input if empty)
	format      string  // png, svg, or pdf
	width       float64 // canvas width in inches
	height      float64 // canvas height in inches
	title       string  // map title
	leaders     bool    // draw leader lines from boxes to clusters
	minCategory int     // minimum category (archive input only)
	refresh     bool    // bypass the stage cache (archive input only)
}

// newRenderCmd creates the render command for drawing placed maps.
// It accepts either a plan document (.json) or a raw HURDAT2 archive;
// for an archive the full pipeline runs first, with every stage cached.
func newRenderCmd(ro *rootOpts) *cobra.Command {
	opts := renderOpts{minCategory: 1}

	cmd := &cobra.Command{
		Use:   "render <plan-or-archive>",
		Short: "Draw the placed label map as PNG, SVG, or PDF",
		Long: `Draw a placed label map.

The input is auto-detected: a .json file is read as a plan document and
rendered directly, anything else is treated as a HURDAT2 archive and the
full parse, cluster, place, render pipeline runs first.

Examples:
  stormlabel render hurdat2.plan.json              # map from a plan
  stormlabel render hurdat2.txt -f svg             # full pipeline, SVG out
  stormlabel render hurdat2.txt --title "2004 season"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, ro, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input path with the format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png (default), svg, pdf")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width in inches")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height in inches")
	cmd.Flags().StringVar(&opts.title, "title", "", "map title")
	cmd.Flags().BoolVar(&opts.leaders, "leaders", true, "draw leader lines from label boxes to clusters")
	cmd.Flags().IntVar(&opts.minCategory, "min-category", opts.minCategory, "minimum Saffir-Simpson category (archive input)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache (archive input)")

	return cmd
}

// runRender dispatches on the input type and writes the map.
func runRender(cmd *cobra.Command, ro *rootOpts, opts *renderOpts, input string) error {
	cfg, err := config.Load(ro.config)
	if err != nil {
		return err
	}
	applyRenderFlags(cmd, opts, &cfg)

	if looksLikePlan(input) {
		return renderPlan(cmd, opts, cfg, input)
	}
	return renderArchive(cmd, ro, opts, cfg, input)
}

// applyRenderFlags layers explicitly set flags over the config file.
func applyRenderFlags(cmd *cobra.Command, opts *renderOpts, cfg *config.Config) {
	if opts.format != "" {
		cfg.Render.Format = opts.format
	}
	if opts.width > 0 {
		cfg.Render.WidthInches = opts.width
	}
	if opts.height > 0 {
		cfg.Render.HeightInches = opts.height
	}
	if opts.title != "" {
		cfg.Render.Title = opts.title
	}
	if cmd.Flags().Changed("leaders") {
		cfg.Render.Leaders = opts.leaders
	}
}

// renderPlan draws a map straight from a plan document.
func renderPlan(cmd *cobra.Command, opts *renderOpts, cfg config.Config, input string) error {
	logger := loggerFromContext(cmd.Context())
	logger.Infof("Rendering %s", input)

	doc, err := plan.ReadFile(input)
	if err != nil {
		return err
	}

	out := outputPath(opts.output, input, "."+cfg.Render.Format)
	prog := newProgress(logger)
	err = mapplot.RenderFile(doc.Clusters, doc.Result, mapplot.Options{
		Format:  cfg.Render.Format,
		Width:   cfg.Render.WidthInches,
		Height:  cfg.Render.HeightInches,
		Title:   cfg.Render.Title,
		Leaders: cfg.Render.Leaders,
	}, out)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d placements", len(doc.Result.Placements)))

	if uerr := doc.Result.UnresolvedErr(); uerr != nil {
		printWarning("%s", errors.UserMessage(uerr))
	}
	printSuccess("Rendered map from plan %s", doc.RunID)
	printFile(out)
	return nil
}

// renderArchive runs the full pipeline on a HURDAT2 archive and writes
// the resulting artifact.
func renderArchive(cmd *cobra.Command, ro *rootOpts, opts *renderOpts, cfg config.Config, archive string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := newRunner(ro, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipelineOptions(cfg, archive)
	popts.MinCategory = opts.minCategory
	popts.Refresh = opts.refresh

	logger.Infof("Rendering %s", archive)
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d placements", result.Stats.Placed))

	out := outputPath(opts.output, archive, "."+popts.Render.Format)
	if err := os.WriteFile(out, result.Artifact, 0o644); err != nil {
		return err
	}

	if result.Stats.Unresolved > 0 {
		printWarning("%d placements kept a residual overlap", result.Stats.Unresolved)
	}
	printSuccess("Rendered %d of %d clusters", result.Stats.Placed, result.Stats.Clusters)
	printStats(result.CacheInfo.RenderHit,
		statPart{result.Stats.Landfalls, "landfalls"},
		statPart{result.Stats.Clusters, "clusters"},
		statPart{result.Stats.Unresolved, "unresolved"})
	printFile(out)
	return nil
}
