package diskusage

import (
	"cmp"
	"context"
	"slices"
	"strings"
)

// Compare orders nodes by total size, largest first, breaking ties by path in
// ascending lexicographic order. Two distinct paths never compare equal.
//
// Compare reads memoized sizes only. A node that has not been measured counts as
// zero bytes; use SortNodes to measure before sorting.
func Compare(a, b *Node) int {
	if c := cmp.Compare(b.size(), a.size()); c != 0 {
		return c
	}

	return strings.Compare(a.path, b.path)
}

// SortNodes measures every node and then sorts nodes in place with Compare.
// The first measurement failure aborts the sort and leaves nodes untouched.
func SortNodes(ctx context.Context, nodes []*Node) error {
	for _, node := range nodes {
		if _, err := node.TotalSize(ctx); err != nil {
			return err
		}
	}

	slices.SortFunc(nodes, Compare)

	return nil
}
