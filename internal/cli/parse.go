package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stormlabel/stormlabel/pkg/config"
	"github.com/stormlabel/stormlabel/pkg/hurdat"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	minCategory int    // minimum Saffir-Simpson category to keep
	refresh     bool   // bypass the stage cache
	output      string // output file path (stdout if empty)
}

// newParseCmd creates the parse command.
// It extracts hurricane landfalls from a HURDAT2 archive and writes
// them as CSV, sorted by landfall time.
func newParseCmd(ro *rootOpts) *cobra.Command {
	opts := parseOpts{minCategory: 1}

	cmd := &cobra.Command{
		Use:   "parse <archive>",
		Short: "Extract hurricane landfalls from a HURDAT2 archive",
		Long: `Extract hurricane landfalls from a HURDAT2 archive.

Only landfall records (record identifier "L") at hurricane strength are
kept. The result is written as CSV, one landfall per row, sorted by time.

Examples:
  stormlabel parse hurdat2.txt                      # CSV to stdout
  stormlabel parse hurdat2.txt -o landfalls.csv     # CSV to file
  stormlabel parse hurdat2.txt --min-category 3     # major hurricanes only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, ro, &opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.minCategory, "min-category", opts.minCategory, "minimum Saffir-Simpson category (1-5)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runParse parses the archive and writes the landfall CSV.
func runParse(cmd *cobra.Command, ro *rootOpts, opts *parseOpts, archive string) error {
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

	logger.Infof("Parsing %s", archive)
	prog := newProgress(logger)
	landfalls, cached, err := runner.ParseWithCacheInfo(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d landfalls", len(landfalls)))

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := hurdat.WriteCSV(out, landfalls); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Extracted %d landfalls", len(landfalls))
		printStats(cached, statPart{len(landfalls), "landfalls"})
		printFile(opts.output)
		printNextStep("Next", fmt.Sprintf("stormlabel place %s", archive))
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
