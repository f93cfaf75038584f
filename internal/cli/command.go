package cli

import (
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/diskusage/internal/config"
	"github.com/idelchi/diskusage/internal/diskusage"
	"github.com/idelchi/diskusage/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json", "plain"}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	return c.command(cfg).Execute()
}

// command builds the root command with flag defaults taken from cfg.
func (c CLI) command(cfg *config.Config) *cobra.Command {
	var options diskusage.Options

	cmd := &cobra.Command{
		Use:   "diskusage [flags] [path]",
		Short: "Report the size of a directory tree and its largest files",
		Long: heredoc.Doc(`
			diskusage measures the total size of a file or directory tree and lists
			the largest files beneath it.

			Positional Arguments:
			  path                   File or directory to measure. Defaults to the current directory.

			Output formats:
			  table   human readable summary (default)
			  json    machine readable report
			  plain   one "<size> <unit> <path>" line for the root, then one per file

			Defaults can be set through the environment:
			  DISKUSAGE_TOP, DISKUSAGE_OUTPUT, DISKUSAGE_EXT_STATS, DISKUSAGE_DEBUG

			The '-I' flag is available if using the integration script for shell usage.
			It will then run an interactive mode where the output of the tool is piped to 'fzf'
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if options.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			if !slices.Contains(allowedOutputs, options.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
			}

			if options.TopN <= 0 {
				return fmt.Errorf("invalid top %d: must be positive", options.TopN)
			}

			if len(args) == 0 {
				options.Path = "."
			} else {
				options.Path = args[0]
			}

			return logic(cmd, options)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.IntVarP(&options.TopN, "top", "t", cfg.Top, "Number of largest files to display")
	flags.StringVarP(&options.Output, "output", "o", cfg.Output, "Output format: table, json or plain")
	flags.BoolVar(&options.ExtStats, "ext-stats", cfg.ExtStats, "Break the total down by file extension")
	flags.BoolVar(&options.Debug, "debug", cfg.Debug, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")
	flags.BoolVarP(&options.Integration, "init", "i", false, "Output init script for shell usage")

	return cmd
}
