package util

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWalkNotebooks(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a.ipynb",
		"b.txt",
		"sub/.ipynb",
		"sub/c.ipynb",
		"sub/deeper/d.ipynb",
		".ipynb_checkpoints/a-checkpoint.ipynb",
		"sub/.ipynb_checkpoints/c-checkpoint.ipynb",
	)

	var got []string
	err := WalkNotebooks(root, ".ipynb", func(path string) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("WalkNotebooks returned error: %v", err)
	}

	want := []string{"a.ipynb", "sub/c.ipynb", "sub/deeper/d.ipynb"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WalkNotebooks visited %v, want %v", got, want)
	}
}

func TestWalkNotebooks_StopsOnError(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.ipynb", "b.ipynb")

	stop := errors.New("stop")
	calls := 0
	err := WalkNotebooks(root, ".ipynb", func(string) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected stop error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times after error, want 1", calls)
	}
}

func TestWalkNotebooks_BadRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "file.ipynb")

	err := WalkNotebooks(filepath.Join(root, "file.ipynb"), ".ipynb", func(string) error { return nil })
	if !errors.Is(err, ErrExpectedDirectory) {
		t.Errorf("expected ErrExpectedDirectory, got %v", err)
	}

	err = WalkNotebooks(root, "", func(string) error { return nil })
	if !errors.Is(err, ErrEmptySuffix) {
		t.Errorf("expected ErrEmptySuffix, got %v", err)
	}
}

func TestTreeSummary_Save(t *testing.T) {
	dir := t.TempDir()
	s := NewTreeSummary("/data")
	s.Notebooks = 3
	s.Cells = 12
	s.VirtualFiles = 20
	s.VirtualBytes = 4096

	if err := s.Save(dir); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		t.Fatalf("summary.json not written: %v", err)
	}
	var got TreeSummary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("summary.json is not valid JSON: %v", err)
	}
	if got != s {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, s)
	}
	if got.NBFSVersion == "" {
		t.Errorf("NBFSVersion should be filled in")
	}
}
