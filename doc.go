// Package main provides the nbfs command-line interface.
//
// nbfs mounts a directory tree read-only and shows every Jupyter notebook in
// it as a directory of plain files, so that grep, diff and editors can work on
// notebook cells and outputs without a notebook server.
//
// The binary supports multiple subcommands:
//   - mount: Mount a notebook tree at a specified mountpoint
//   - outline: List the projected files of one notebook
//   - validate: Check every notebook in a tree
//   - count: Summarize a tree
//   - seed: Generate sample notebooks
//   - version: Print build information
//
// A .env file in the working directory is loaded before flags are parsed.
package main
