package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stormlabel/stormlabel/pkg/plan"
	"github.com/stormlabel/stormlabel/pkg/render/report"
)

// reportOpts holds the command-line flags for the report command.
type reportOpts struct {
	output string // HTML output path (derived from input if empty)
}

// newReportCmd creates the report command.
// It turns a plan document into an interactive HTML scatter chart with
// per-category series and hover tooltips for every storm.
func newReportCmd(ro *rootOpts) *cobra.Command {
	opts := reportOpts{}

	cmd := &cobra.Command{
		Use:   "report <plan>",
		Short: "Generate an interactive HTML report from a plan",
		Long: `Generate an interactive HTML report from a plan document.

The report shows landfall points colored by category, label anchors, and
any unresolved placements as separate toggleable series.

Example:
  stormlabel report hurdat2.plan.json              # writes hurdat2.plan.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <plan>.html)")

	return cmd
}

// runReport reads the plan and writes the HTML report.
func runReport(cmd *cobra.Command, opts *reportOpts, input string) error {
	logger := loggerFromContext(cmd.Context())
	logger.Infof("Reporting on %s", input)

	doc, err := plan.ReadFile(input)
	if err != nil {
		return err
	}

	out := outputPath(opts.output, input, ".html")
	prog := newProgress(logger)
	if err := report.RenderFile(doc, out); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Reported %d placements", len(doc.Result.Placements)))

	printSuccess("Generated report for plan %s", doc.RunID)
	printFile(out)
	return nil
}
