package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CheckpointDir is the directory Jupyter writes autosave copies into.
// WalkNotebooks does not descend into it.
const CheckpointDir = ".ipynb_checkpoints"

// WalkNotebooks calls fn for every regular file under root whose name ends
// in suffix, in lexical order. An error from fn stops the walk and is
// returned.
func WalkNotebooks(root, suffix string, fn func(path string) error) error {
	if suffix == "" {
		return ErrEmptySuffix
	}
	fi, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrExpectedDirectory)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == CheckpointDir {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !d.Type().IsRegular() || len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) {
			return nil
		}
		return fn(path)
	})
}
