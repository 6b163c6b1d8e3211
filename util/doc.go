// Package util provides the supporting pieces shared by the nbfs filesystem
// and its command line tools.
//
// Key Components:
//
// Inode Table:
//   - Inodes maps mount paths to stable inode numbers
//   - Numbers are derived from a color hash of the path, with a counter
//     fallback when two paths collide
//   - Inode 1 is always the mount root
//
// Tree Traversal:
//   - WalkNotebooks visits every notebook file under a directory tree
//   - Jupyter checkpoint directories are skipped
//
// Summaries:
//   - TreeSummary records notebook, cell and virtual file counts for a tree
//   - JSON persistence for use by scripts and monitoring
//
// The Inodes table is safe for concurrent use by the FUSE request handlers.
package util
