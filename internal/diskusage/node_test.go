package diskusage

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyPath(t *testing.T) {
	node, err := New("")

	require.ErrorIs(t, err, ErrInvalidPath)
	assert.Nil(t, node)
}

func TestNewDoesNotTouchFileSystem(t *testing.T) {
	fsys := newFakeFS()

	node, err := New("/does/not/exist", WithFileSystem(fsys))

	require.NoError(t, err)
	assert.Equal(t, "/does/not/exist", node.Path())
	assert.False(t, node.Measured())
	assert.Zero(t, fsys.calls)
}

func TestTotalSizeExample(t *testing.T) {
	ctx := context.Background()

	node, err := New("/root", WithFileSystem(exampleFS()))
	require.NoError(t, err)

	total, err := node.TotalSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), total)

	files, err := node.Files(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/root/a.txt", "/root/sub/b.bin"}, paths(files))

	top, ok, err := node.LargestFiles(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"/root/sub/b.bin"}, paths(top))

	top, ok, err = node.LargestFiles(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"/root/sub/b.bin", "/root/a.txt"}, paths(top))
}

func TestTotalSizeIsMemoized(t *testing.T) {
	ctx := context.Background()
	fsys := exampleFS()

	node, err := New("/root", WithFileSystem(fsys))
	require.NoError(t, err)

	first, err := node.TotalSize(ctx)
	require.NoError(t, err)

	calls := fsys.calls
	require.NotZero(t, calls)

	second, err := node.TotalSize(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, calls, fsys.calls, "second call must not touch the filesystem")
	assert.True(t, node.Measured())
}

func TestTotalSizeIgnoresLaterFileSystemChanges(t *testing.T) {
	ctx := context.Background()
	fsys := exampleFS()

	node, err := New("/root", WithFileSystem(fsys))
	require.NoError(t, err)

	_, err = node.TotalSize(ctx)
	require.NoError(t, err)

	fsys.file("/root/late.txt", 10_000)

	total, err := node.TotalSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), total)
}

func TestDescendantInvariants(t *testing.T) {
	ctx := context.Background()
	fsys := newFakeFS().
		dir("/d").
		file("/d/1", 1).
		dir("/d/x").
		file("/d/x/2", 20).
		dir("/d/x/y").
		file("/d/x/y/3", 300).
		dir("/d/x/y/z").
		file("/d/x/y/z/4", 4000).
		file("/d/x/y/z/zero", 0)

	for _, dir := range []string{"/d", "/d/x", "/d/x/y", "/d/x/y/z"} {
		t.Run(dir, func(t *testing.T) {
			node, err := New(dir, WithFileSystem(fsys))
			require.NoError(t, err)

			total, err := node.TotalSize(ctx)
			require.NoError(t, err)

			files, err := node.Files(ctx)
			require.NoError(t, err)

			var sum int64

			for _, file := range files {
				isDir, err := file.IsDir()
				require.NoError(t, err)
				assert.False(t, isDir, "%s is a directory", file.Path())

				sum += fsys.files[file.Path()]
			}

			assert.Equal(t, sum, total)
		})
	}

	node, err := New("/d", WithFileSystem(fsys))
	require.NoError(t, err)

	files, err := node.Files(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"/d/1", "/d/x/2", "/d/x/y/3", "/d/x/y/z/4", "/d/x/y/z/zero"},
		paths(files),
		"zero-byte files are listed too",
	)
}

func TestEmptyDirectory(t *testing.T) {
	ctx := context.Background()

	node, err := New("/empty", WithFileSystem(newFakeFS().dir("/empty")))
	require.NoError(t, err)

	total, err := node.TotalSize(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	files, err := node.Files(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	top, ok, err := node.LargestFiles(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestFileNode(t *testing.T) {
	ctx := context.Background()

	node, err := New("/root/a.txt", WithFileSystem(exampleFS()))
	require.NoError(t, err)

	total, err := node.TotalSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500), total)

	files, err := node.Files(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	top, ok, err := node.LargestFiles(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok, "largest files do not apply to a file")
	assert.Nil(t, top)
}

func TestLargestFilesCount(t *testing.T) {
	ctx := context.Background()
	fsys := newFakeFS().
		dir("/a").
		file("/a/y", 1024).
		file("/a/x", 1024).
		file("/a/big", 4096).
		dir("/a/nested").
		file("/a/nested/small", 1)

	tests := []struct {
		name  string
		count int
		want  []string
	}{
		{name: "negative", count: -1, want: []string{}},
		{name: "zero", count: 0, want: []string{}},
		{name: "one", count: 1, want: []string{"/a/big"}},
		{name: "ties by path", count: 3, want: []string{"/a/big", "/a/x", "/a/y"}},
		{name: "more than available", count: 10, want: []string{"/a/big", "/a/x", "/a/y", "/a/nested/small"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := New("/a", WithFileSystem(fsys))
			require.NoError(t, err)

			top, ok, err := node.LargestFiles(ctx, tt.count)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, paths(top))
		})
	}
}

func TestLargestFilesDoesNotAlterFiles(t *testing.T) {
	ctx := context.Background()

	node, err := New("/root", WithFileSystem(exampleFS()))
	require.NoError(t, err)

	before, err := node.Files(ctx)
	require.NoError(t, err)

	_, _, err = node.LargestFiles(ctx, 5)
	require.NoError(t, err)

	after, err := node.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, paths(before), paths(after))
}

func TestErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	fsys := exampleFS()
	fsys.fail["/root/sub"] = fs.ErrPermission

	node, err := New("/root", WithFileSystem(fsys))
	require.NoError(t, err)

	_, err = node.TotalSize(ctx)
	require.ErrorIs(t, err, fs.ErrPermission)
	assert.Contains(t, err.Error(), "/root/sub")
	assert.False(t, node.Measured(), "failed measurement must not be cached")

	_, _, err = node.LargestFiles(ctx, 1)
	require.ErrorIs(t, err, fs.ErrPermission)

	_, err = node.Describe(ctx)
	require.ErrorIs(t, err, fs.ErrPermission)
}

func TestMissingPath(t *testing.T) {
	node, err := New("/missing", WithFileSystem(newFakeFS()))
	require.NoError(t, err)

	_, err = node.TotalSize(context.Background())
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	node, err := New("/root", WithFileSystem(exampleFS()))
	require.NoError(t, err)

	_, err = node.TotalSize(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestVisitorSeesEveryFile(t *testing.T) {
	visited := map[string]int64{}

	node, err := New("/root",
		WithFileSystem(exampleFS()),
		WithVisitor(func(path string, size int64) { visited[path] = size }),
	)
	require.NoError(t, err)

	_, err = node.TotalSize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"/root/a.txt": 500, "/root/sub/b.bin": 2000}, visited)
}

func TestDescribe(t *testing.T) {
	node, err := New("/root", WithFileSystem(exampleFS()))
	require.NoError(t, err)

	assert.Equal(t, "/root", node.String(), "unmeasured nodes render as their path")

	line, err := node.Describe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "    2.44 KB     /root", line)
	assert.Equal(t, line, node.String())
}

func TestIsDir(t *testing.T) {
	fsys := exampleFS()

	dir, err := New("/root", WithFileSystem(fsys))
	require.NoError(t, err)

	isDir, err := dir.IsDir()
	require.NoError(t, err)
	assert.True(t, isDir)

	file, err := New("/root/a.txt", WithFileSystem(fsys))
	require.NoError(t, err)

	isDir, err = file.IsDir()
	require.NoError(t, err)
	assert.False(t, isDir)

	missing, err := New("/nope", WithFileSystem(fsys))
	require.NoError(t, err)

	_, err = missing.IsDir()
	require.ErrorIs(t, err, fs.ErrNotExist)
}
