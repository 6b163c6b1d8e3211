// Package cmd provides the command-line interface implementation for nbfs.
//
// Each subcommand lives in its own file with a constructor returning a
// *cobra.Command; NewRootCmd wires them into two groups:
//   - filesystem: mount
//   - utilities: outline, validate, count, seed, version
//
// The mount command runs the FUSE server, the metrics endpoint and a signal
// handler as one oklog/run group. The utilities work directly on the notebook
// and nbfs packages and never touch FUSE.
package cmd
