// Package version reports build metadata for the nbfs binary.
//
// Values come from -ldflags when the release build sets them:
//
//	-ldflags "-X github.com/dendrascience/notebook-fuse/version.Version=v1.0.0 -X github.com/dendrascience/notebook-fuse/version.Commit=abc123"
//
// Otherwise they fall back to the module version and VCS stamps recorded by
// the go tool, and finally to development defaults.
package version
