package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/diskusage/internal/diskusage"
	"github.com/idelchi/diskusage/internal/logging"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func logic(cmd *cobra.Command, options diskusage.Options) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	enableProgress := strings.ToLower(options.Output) != "json" &&
		!options.Debug &&
		isTerminal(stderr)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	options.Logger = logging.New(options.Debug, stderr)
	defer func() { _ = options.Logger.Sync() }()

	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		// Count files concurrently so the progress line can show how far along we are.
		var expected atomic.Int64

		expected.Store(-1)

		go func() {
			if count, err := diskusage.CountFiles(ctx, options.Path); err == nil {
				expected.Store(count)
			}
		}()

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive

			if total := expected.Load(); total >= files {
				msg = fmt.Sprintf("Scanning… %d/%d files, %s",
					files, total, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			}

			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	report, err := diskusage.Run(ctx, options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	switch strings.ToLower(options.Output) {
	case "json":
		return PrintJSON(report, stdout)
	case "table":
		return PrintTable(report, stdout)
	case "plain":
		return PrintPlain(report, stdout)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}
