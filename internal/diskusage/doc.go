// Package diskusage provides disk usage measurement for directory trees.
//
// A Node represents one filesystem path. On first access it explores the tree
// beneath it depth-first, memoizes its total size and collects every file
// nested below it into a flat list, which backs the largest-files query.
// Filesystem access goes through the FileSystem interface so trees can be
// measured on the real disk or on a fake.
package diskusage
