package diskusage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInvalidPath is returned when a Node is created with an empty path.
var ErrInvalidPath = errors.New("invalid path: path cannot be empty")

// Visitor is called once for every file measured during exploration.
type Visitor func(path string, size int64)

// Option configures a Node.
type Option func(*Node)

// WithFileSystem sets the filesystem the node and its descendants are measured on.
func WithFileSystem(fsys FileSystem) Option {
	return func(n *Node) {
		if fsys != nil {
			n.fsys = fsys
		}
	}
}

// WithLogger sets the logger exploration reports to at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(n *Node) {
		if log != nil {
			n.log = log
		}
	}
}

// WithVisitor registers a callback invoked for every measured file.
func WithVisitor(visit Visitor) Option {
	return func(n *Node) {
		n.visit = visit
	}
}

// measurement is the memoized result of exploring a node.
type measurement struct {
	// total is the size in bytes of the file, or of all files beneath the directory.
	total int64
	// dir reports whether the node is a directory.
	dir bool
	// files holds every file beneath a directory, at any depth. Empty for files.
	files []*Node
}

// Node is a file or directory whose size is computed on first access.
// A Node is not safe for concurrent use.
type Node struct {
	path  string
	fsys  FileSystem
	log   *zap.Logger
	visit Visitor

	// measured is nil until the node has been explored.
	measured *measurement
}

// New creates a Node for path. The path is not checked for existence until the
// node is first measured.
func New(path string, opts ...Option) (*Node, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	node := &Node{
		path: path,
		fsys: OS(),
		log:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(node)
	}

	return node, nil
}

// child creates a node for path that shares n's filesystem, logger and visitor.
func (n *Node) child(path string) *Node {
	return &Node{
		path:  path,
		fsys:  n.fsys,
		log:   n.log,
		visit: n.visit,
	}
}

// Path returns the path the node was created with.
func (n *Node) Path() string {
	return n.path
}

// Measured reports whether the node's size has already been computed.
func (n *Node) Measured() bool {
	return n.measured != nil
}

// IsDir reports whether the node is a directory. Once the node is measured the
// answer comes from memory.
func (n *Node) IsDir() (bool, error) {
	if n.measured != nil {
		return n.measured.dir, nil
	}

	dir, err := n.fsys.IsDir(n.path)
	if err != nil {
		return false, fmt.Errorf("inspecting %q: %w", n.path, err)
	}

	return dir, nil
}

// TotalSize returns the size of the file, or the combined size of every file
// beneath the directory. The first call explores the tree; later calls return
// the memoized value without touching the filesystem.
func (n *Node) TotalSize(ctx context.Context) (int64, error) {
	m, err := n.measure(ctx)
	if err != nil {
		return 0, err
	}

	return m.total, nil
}

// Files returns every file beneath the directory at any depth, in traversal order.
// For a file node the result is empty.
func (n *Node) Files(ctx context.Context) ([]*Node, error) {
	m, err := n.measure(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]*Node, len(m.files))
	copy(files, m.files)

	return files, nil
}

// LargestFiles returns up to count files beneath the directory, ordered by Compare.
// If the node is not a directory it returns ok == false and no files.
// A count of zero or less yields an empty list.
func (n *Node) LargestFiles(ctx context.Context, count int) (files []*Node, ok bool, err error) {
	m, err := n.measure(ctx)
	if err != nil {
		return nil, false, err
	}

	if !m.dir {
		return nil, false, nil
	}

	if count <= 0 {
		return []*Node{}, true, nil
	}

	files = make([]*Node, len(m.files))
	copy(files, m.files)

	// Descendants are measured during exploration, so Compare sees real sizes.
	if err := SortNodes(ctx, files); err != nil {
		return nil, false, err
	}

	return files[:min(count, len(files))], true, nil
}

// Describe renders the node's size and canonical path, e.g. "    1.50 KB     /tmp/a.txt".
func (n *Node) Describe(ctx context.Context) (string, error) {
	size, err := n.TotalSize(ctx)
	if err != nil {
		return "", err
	}

	canonical, err := n.fsys.Canonicalize(n.path)
	if err != nil {
		return "", fmt.Errorf("canonicalizing %q: %w", n.path, err)
	}

	return FormatLine(size, canonical), nil
}

// String renders the node from memoized state only. An unmeasured node renders as its path.
// Use Describe for the canonical path and to surface filesystem errors.
func (n *Node) String() string {
	if n.measured == nil {
		return n.path
	}

	return FormatLine(n.measured.total, n.path)
}

// size returns the memoized size, or zero for an unmeasured node.
func (n *Node) size() int64 {
	if n.measured == nil {
		return 0
	}

	return n.measured.total
}

// measure returns the memoized measurement, exploring the node on first use.
func (n *Node) measure(ctx context.Context) (*measurement, error) {
	if n.measured != nil {
		return n.measured, nil
	}

	m, err := n.explore(ctx)
	if err != nil {
		return nil, err
	}

	n.measured = m

	return m, nil
}

// explore computes the node's measurement. Directory entries are measured
// recursively: a subdirectory contributes its own file list, a file contributes itself.
// Each call builds a fresh file list; children's lists are only read.
func (n *Node) explore(ctx context.Context) (*measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := n.fsys.IsDir(n.path)
	if err != nil {
		return nil, fmt.Errorf("inspecting %q: %w", n.path, err)
	}

	if !dir {
		size, err := n.fsys.Length(n.path)
		if err != nil {
			return nil, fmt.Errorf("reading size of %q: %w", n.path, err)
		}

		n.log.Debug("measured file", zap.String("path", n.path), zap.Int64("bytes", size))

		if n.visit != nil {
			n.visit(n.path, size)
		}

		return &measurement{total: size}, nil
	}

	entries, err := n.fsys.ListEntries(n.path)
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", n.path, err)
	}

	n.log.Debug("exploring directory", zap.String("path", n.path), zap.Int("entries", len(entries)))

	m := &measurement{dir: true, files: make([]*Node, 0, len(entries))}

	for _, entry := range entries {
		// Check cancellation between entries
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		canonical, err := n.fsys.Canonicalize(entry)
		if err != nil {
			return nil, fmt.Errorf("canonicalizing %q: %w", entry, err)
		}

		child := n.child(canonical)

		cm, err := child.measure(ctx)
		if err != nil {
			return nil, err
		}

		m.total += cm.total

		if cm.dir {
			m.files = append(m.files, cm.files...)
		} else {
			m.files = append(m.files, child)
		}
	}

	n.log.Debug("measured directory",
		zap.String("path", n.path),
		zap.Int64("bytes", m.total),
		zap.Int("files", len(m.files)),
	)

	return m, nil
}
