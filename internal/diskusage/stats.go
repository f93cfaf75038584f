package diskusage

import (
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExtStat represents statistics for a file extension.
type ExtStat struct {
	// Count is the number of files with this extension.
	Count int `json:"count"`
	// Size is the cumulative size in bytes.
	Size int64 `json:"size"`
}

// FileStat represents a single file path and size.
type FileStat struct {
	// Path is the canonical file path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
}

// Report holds the result of measuring a directory tree.
type Report struct {
	// Path is the canonical path of the measured root.
	Path string `json:"path"`
	// Directory indicates whether the root is a directory.
	Directory bool `json:"directory"`
	// FileCount is the number of files measured.
	FileCount int64 `json:"file_count"`
	// TotalBytes is the total size of the root.
	TotalBytes int64 `json:"total_bytes"`
	// ExtStats maps file extensions to their statistics. Only populated on request.
	ExtStats map[string]ExtStat `json:"ext_stats,omitempty"`
	// TopFiles contains the N largest files, largest first.
	TopFiles []FileStat `json:"top_files"`
	// Elapsed is the total time taken for measurement.
	Elapsed time.Duration `json:"elapsed"`
	// TopN is the number of top results requested.
	TopN int `json:"top_n"`
}

// Options configures measurement and CLI behavior.
type Options struct {
	// Path is the file or directory to measure.
	Path string
	// TopN is the number of largest files to report.
	TopN int
	// ExtStats indicates whether to break the total down by file extension.
	ExtStats bool
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// FileSystem overrides the operating system filesystem.
	FileSystem FileSystem
	// Logger receives debug output. Nil disables logging.
	Logger *zap.Logger
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents output format (table, json or plain).
	Output string
	// Version indicates whether to show version and exit.
	Version bool
	// Integration indicates whether to output integration script.
	Integration bool
}

// collector tallies measured files. Exploration feeds it through a Visitor while
// the progress reporter reads it from another goroutine, hence the mutex.
type collector struct {
	mu         sync.Mutex
	extensions bool
	extStats   map[string]ExtStat
	fileCount  int64
	totalBytes int64
}

// newCollector creates a collector, optionally tracking per-extension statistics.
func newCollector(extensions bool) *collector {
	return &collector{
		extensions: extensions,
		extStats:   make(map[string]ExtStat),
	}
}

// add records a measured file. Its signature matches Visitor.
func (c *collector) add(path string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileCount++
	c.totalBytes += size

	if !c.extensions {
		return
	}

	ext := filepath.Ext(path)
	stat := c.extStats[ext]
	stat.Count++
	stat.Size += size
	c.extStats[ext] = stat
}

// snapshot returns the current counters.
func (c *collector) snapshot() (files, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fileCount, c.totalBytes
}

// finalize produces a Report from the collected data. Root-specific fields are
// filled in by the caller.
func (c *collector) finalize() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := &Report{
		FileCount:  c.fileCount,
		TotalBytes: c.totalBytes,
		TopFiles:   make([]FileStat, 0),
	}

	if c.extensions {
		report.ExtStats = make(map[string]ExtStat, len(c.extStats))
		for ext, stat := range c.extStats {
			report.ExtStats[ext] = stat
		}
	}

	return report
}
