package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/diskusage/internal/diskusage"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *diskusage.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPlain outputs one description line for the root followed by one per largest file.
func PrintPlain(report *diskusage.Report, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, diskusage.FormatLine(report.TotalBytes, report.Path)); err != nil {
		return err
	}

	for _, file := range report.TopFiles {
		if _, err := fmt.Fprintln(writer, diskusage.FormatLine(file.Size, file.Path)); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
// Lists are printed smallest first so the largest entry ends up closest to the prompt.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report *diskusage.Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	if len(report.ExtStats) > 0 {
		// Extension statistics
		fmt.Fprintln(w, "\nTop extensions:\t\t")
		extList := make([]string, 0, len(report.ExtStats))
		for ext := range report.ExtStats {
			extList = append(extList, ext)
		}
		sort.Slice(extList, func(i, j int) bool {
			a, b := report.ExtStats[extList[i]], report.ExtStats[extList[j]]
			if a.Size != b.Size {
				return a.Size < b.Size
			}
			return extList[i] > extList[j]
		})

		startIdx := 0
		if len(extList) > report.TopN {
			startIdx = len(extList) - report.TopN
		}

		displayList := extList[startIdx:]
		for i, ext := range displayList {
			extStat := report.ExtStats[ext]
			if ext == "" {
				ext = "\"\""
			}
			fmt.Fprintf(w, "  %d) %s:\t%d files, %s (%.1f%%)\n",
				len(displayList)-i, ext, extStat.Count, humanize.IBytes(uint64(extStat.Size)), //nolint:gosec // Sizes are never negative
				percent(extStat.Size, report.TotalBytes))
		}
	}

	if report.Directory {
		fmt.Fprintln(w, "\nLargest files:\t\t")

		for i := len(report.TopFiles) - 1; i >= 0; i-- {
			f := report.TopFiles[i]
			fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n",
				i+1, f.Path, diskusage.HumanSize(f.Size), percent(f.Size, report.TotalBytes))
		}
	}

	// Stats summary
	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Path:\t%s\n", report.Path)
	fmt.Fprintf(w, "Total files:\t%d\n", report.FileCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(report.TotalBytes)), report.TotalBytes) //nolint:gosec // Sizes are never negative

	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}

// percent returns part as a percentage of total, or zero for an empty total.
func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}
