package util

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/notebook-fuse/version"
)

// TreeSummary describes the notebooks found under a directory tree.
type TreeSummary struct {
	Root         string `json:"root"`
	Notebooks    int    `json:"notebooks"`
	Failed       int    `json:"failed"`
	Cells        int    `json:"cells"`
	VirtualFiles int    `json:"virtual_files"`
	VirtualBytes int64  `json:"virtual_bytes"`
	NBFSVersion  string `json:"nbfs_version"`
}

// NewTreeSummary returns an empty summary for root.
func NewTreeSummary(root string) TreeSummary {
	return TreeSummary{Root: root, NBFSVersion: version.GetVersion()}
}

// Write encodes the summary as indented JSON.
func (s TreeSummary) Write(w io.Writer) error {
	je := json.NewEncoder(w)
	je.SetIndent("", "  ")
	return je.Encode(s)
}

// Save writes the summary to path. A path not ending in .json is treated as
// a directory and the summary is written to summary.json inside it.
func (s TreeSummary) Save(path string) error {
	if !strings.HasSuffix(path, ".json") {
		path = filepath.Join(path, "summary.json")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Write(f)
}
