package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stormlabel/stormlabel/pkg/cache"
	"github.com/stormlabel/stormlabel/pkg/config"
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/hurdat"
	"github.com/stormlabel/stormlabel/pkg/pipeline"
	"github.com/stormlabel/stormlabel/pkg/plan"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	minCategory int    // minimum Saffir-Simpson category to keep
	refresh     bool   // bypass the stage cache
	output      string // plan output path (derived from archive if empty)
}

// newPlaceCmd creates the place command.
// It runs parse, cluster, and placement, then writes the resulting plan
// document as JSON. The plan can be rendered repeatedly without
// re-running placement.
func newPlaceCmd(ro *rootOpts) *cobra.Command {
	opts := placeOpts{minCategory: 1}

	cmd := &cobra.Command{
		Use:   "place <archive>",
		Short: "Compute label placements and write a plan document",
		Long: `Compute label placements for the landfalls in a HURDAT2 archive.

Landfalls are clustered into labeling units, the most significant cluster
is placed first, and overlapping labels are displaced deterministically.
The full run is written as a JSON plan document.

Examples:
  stormlabel place hurdat2.txt                     # writes hurdat2.plan.json
  stormlabel place hurdat2.txt -o florida.json     # explicit output path`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlace(cmd, ro, &opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.minCategory, "min-category", opts.minCategory, "minimum Saffir-Simpson category (1-5)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "plan output file (default: <archive>.plan.json)")

	return cmd
}

// runPlace executes parse → cluster → place and writes the plan.
func runPlace(cmd *cobra.Command, ro *rootOpts, opts *placeOpts, archive string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(ro.config)
	if err != nil {
		return err
	}

	runner, err := newRunner(ro, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipelineOptions(cfg, archive)
	popts.MinCategory = opts.minCategory
	popts.Refresh = opts.refresh

	logger.Infof("Placing labels for %s", archive)
	prog := newProgress(logger)

	landfalls, _, err := runner.ParseWithCacheInfo(ctx, popts)
	if err != nil {
		return err
	}
	clusters := pipeline.BuildClusters(landfalls, popts)

	doc, cached, err := runner.PlanWithCacheInfo(ctx, landfallHash(landfalls), clusters, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d labels", doc.Result.Stats.Placed))

	out := outputPath(opts.output, archive, ".plan.json")
	if err := plan.WriteFile(doc, out); err != nil {
		return err
	}

	if uerr := doc.Result.UnresolvedErr(); uerr != nil {
		printWarning("%s", errors.UserMessage(uerr))
	}
	printSuccess("Placed %d of %d clusters", doc.Result.Stats.Placed, len(clusters))
	printStats(cached,
		statPart{len(landfalls), "landfalls"},
		statPart{len(clusters), "clusters"},
		statPart{doc.Result.Stats.Unresolved, "unresolved"})
	printFile(out)
	printNextStep("Next", fmt.Sprintf("stormlabel render %s", out))
	return nil
}

// landfallHash is the content hash of a landfall set, computed over its
// CSV serialization. It keys the plan cache entry.
func landfallHash(landfalls []hurdat.Landfall) string {
	var buf bytes.Buffer
	if err := hurdat.WriteCSV(&buf, landfalls); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}
