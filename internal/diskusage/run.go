package diskusage

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

const (
	// DefaultProgressInterval is the default interval for progress updates.
	DefaultProgressInterval = 500 * time.Millisecond
	// DefaultTopN is the number of largest files reported when none is requested.
	DefaultTopN = 10
)

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// CountFiles counts the non-directory entries beneath root using a parallel walk.
// Symlinks are counted as entries and not followed, and unreadable entries are
// skipped, so the result is an estimate of what a Node will measure.
func CountFiles(ctx context.Context, root string) (int64, error) {
	var count atomic.Int64

	conf := &fastwalk.Config{
		Follow: false,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are skipped
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !d.IsDir() {
			count.Add(1)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting files in %q: %w", root, err)
	}

	return count.Load(), nil
}

// Run measures the file or directory at opt.Path and returns a Report with its
// total size and its opt.TopN largest files.
//
// If opt.ExtStats is true, the total is also broken down by file extension.
// The measurement can be cancelled via ctx. Progress updates are sent to
// progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Report, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}

	fsys := opt.FileSystem
	if fsys == nil {
		fsys = OS()
	}

	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}

	collector := newCollector(opt.ExtStats)

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	root, err := New(opt.Path, WithFileSystem(fsys), WithLogger(log), WithVisitor(collector.add))
	if err != nil {
		return nil, err
	}

	log.Debug("measuring", zap.String("path", opt.Path), zap.Int("top", opt.TopN))

	start := time.Now()

	total, err := root.TotalSize(ctx)
	if err != nil {
		return nil, fmt.Errorf("measuring %q: %w", opt.Path, err)
	}

	largest, isDir, err := root.LargestFiles(ctx, opt.TopN)
	if err != nil {
		return nil, fmt.Errorf("ranking files in %q: %w", opt.Path, err)
	}

	canonical, err := fsys.Canonicalize(opt.Path)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing %q: %w", opt.Path, err)
	}

	report := collector.finalize()

	report.Path = canonical
	report.Directory = isDir
	report.TotalBytes = total
	report.TopN = opt.TopN

	for _, file := range largest {
		report.TopFiles = append(report.TopFiles, FileStat{Path: file.Path(), Size: file.size()})
	}

	report.Elapsed = time.Since(start)

	log.Debug("measured",
		zap.String("path", canonical),
		zap.Int64("bytes", total),
		zap.Int64("files", report.FileCount),
		zap.Duration("elapsed", report.Elapsed),
	)

	return report, nil
}
