package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with values
// injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts holds flags shared by every command.
type rootOpts struct {
	verbose bool   // enable debug-level logging
	config  string // path to stormlabel.toml (empty = look in cwd)
	noCache bool   // disable the file cache for this run
}

// Execute runs the stormlabel CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext. With --verbose (-v) the level drops to debug.
//
// Example:
//
//	func main() {
//	    cli.SetVersion("v1.0.0", "abc123", "2026-08-23")
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd builds the root command with all subcommands registered.
// Split out from Execute so tests can run commands in-process.
func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:          "stormlabel",
		Short:        "StormLabel places readable labels on hurricane landfall maps",
		Long:         `StormLabel parses HURDAT2 hurricane archives, clusters landfall points, and computes deterministic, collision-free label placements rendered as maps or interactive reports.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("stormlabel %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.config, "config", "c", "", "path to stormlabel.toml (default: ./stormlabel.toml if present)")
	root.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")

	root.AddCommand(newParseCmd(opts))
	root.AddCommand(newPlaceCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root
}
