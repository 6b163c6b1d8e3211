// Package nbfs implements the read-only notebook filesystem.
//
// A Projection turns one notebook file into a flat set of named virtual
// files:
//
//	cell{i}.md                      markdown cell source
//	cell{i}{ext}                    code cell source, ext from language_info
//	cell{i}_out{j}_{stream}.txt     stream output text
//	cell{i}_out{j}_data{k}{ext}     one file per MIME representation
//
// Cell and output indices count every cell and output, including the raw
// cells and error outputs that produce no file.
//
// A Router classifies paths under a backing root as real directories, real
// files, notebook roots or notebook interior files, and answers directory,
// attribute and read requests for each class. Projections are built on first
// access and cached for the life of the Router, keyed by canonical path;
// concurrent first accesses share a single build.
//
// FS adapts a Router to bazil.org/fuse. Every mutating request fails with
// ENOTSUP.
package nbfs
