package diskusage

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
)

// fakeFS is an in-memory FileSystem that counts every call made to it.
type fakeFS struct {
	dirs  map[string][]string
	files map[string]int64
	fail  map[string]error
	calls int
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		dirs:  make(map[string][]string),
		files: make(map[string]int64),
		fail:  make(map[string]error),
	}
}

// dir registers a directory and links it into its parent, if the parent exists.
func (f *fakeFS) dir(p string) *fakeFS {
	f.dirs[p] = []string{}
	f.link(p)

	return f
}

// file registers a file of the given size and links it into its parent.
func (f *fakeFS) file(p string, size int64) *fakeFS {
	f.files[p] = size
	f.link(p)

	return f
}

func (f *fakeFS) link(p string) {
	parent := path.Dir(p)
	if children, ok := f.dirs[parent]; ok && parent != p {
		f.dirs[parent] = append(children, p)
	}
}

func (f *fakeFS) ListEntries(p string) ([]string, error) {
	f.calls++

	if err := f.fail[p]; err != nil {
		return nil, err
	}

	children, ok := f.dirs[p]
	if !ok {
		return nil, fmt.Errorf("%s: not a directory", p)
	}

	return slices.Clone(children), nil
}

func (f *fakeFS) Length(p string) (int64, error) {
	f.calls++

	if err := f.fail[p]; err != nil {
		return 0, err
	}

	size, ok := f.files[p]
	if !ok {
		return 0, fs.ErrNotExist
	}

	return size, nil
}

func (f *fakeFS) Canonicalize(p string) (string, error) {
	f.calls++

	return path.Clean(p), nil
}

func (f *fakeFS) IsDir(p string) (bool, error) {
	f.calls++

	if _, ok := f.dirs[p]; ok {
		return true, nil
	}

	if _, ok := f.files[p]; ok {
		return false, nil
	}

	return false, fs.ErrNotExist
}

// exampleFS is the tree from the package documentation examples:
//
//	/root/a.txt          500 bytes
//	/root/sub/b.bin     2000 bytes
//	/root/sub/empty/
func exampleFS() *fakeFS {
	return newFakeFS().
		dir("/root").
		file("/root/a.txt", 500).
		dir("/root/sub").
		file("/root/sub/b.bin", 2000).
		dir("/root/sub/empty")
}

// paths returns the paths of nodes.
func paths(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.Path())
	}

	return out
}
