package nbfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DefaultSuffix marks the files presented as notebook directories.
const DefaultSuffix = ".ipynb"

// Class is the result of classifying a path in the mount.
type Class int

const (
	ClassAbsent Class = iota
	ClassRealDir
	ClassRealFile
	ClassNotebookRoot
	ClassNotebookInterior
)

func (c Class) String() string {
	switch c {
	case ClassAbsent:
		return "absent"
	case ClassRealDir:
		return "real-directory"
	case ClassRealFile:
		return "real-file"
	case ClassNotebookRoot:
		return "notebook-root"
	case ClassNotebookInterior:
		return "notebook-interior"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Route describes how a mount path is served.
type Route struct {
	Class Class
	// RealPath is the path under the backing root.
	RealPath string
	// Notebook is the canonical path of the backing notebook for
	// ClassNotebookRoot and ClassNotebookInterior.
	Notebook string
	// Name is the virtual file name for ClassNotebookInterior.
	Name string
}

// Dirent is a single directory entry returned by ReadDir.
type Dirent struct {
	Name string
	Dir  bool
}

// Handle reads an opened file.
type Handle interface {
	Read(offset int64, size int) ([]byte, error)
	Close() error
}

// RouterOption configures NewRouter.
type RouterOption func(*Router)

// WithLogger sets the router logger. It is also handed to every projection.
func WithLogger(l log.Logger) RouterOption {
	return func(r *Router) { r.logger = l }
}

// WithSuffix changes the file suffix that marks a notebook.
func WithSuffix(suffix string) RouterOption {
	return func(r *Router) { r.suffix = suffix }
}

// WithMetrics records router activity in m.
func WithMetrics(m *Metrics) RouterOption {
	return func(r *Router) { r.metrics = m }
}

// WithProjectionOptions passes opts to every projection the router builds.
func WithProjectionOptions(opts ...ProjectionOption) RouterOption {
	return func(r *Router) { r.projOpts = append(r.projOpts, opts...) }
}

// Router maps mount paths onto the backing tree and the notebook
// projections it contains. It is safe for concurrent use.
type Router struct {
	root     string
	suffix   string
	logger   log.Logger
	metrics  *Metrics
	projOpts []ProjectionOption

	build buildFunc
	cache *projectionCache
}

// NewRouter creates a router over the directory root.
func NewRouter(root string, opts ...RouterOption) (*Router, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root %s: %w", abs, ErrNotADirectory)
	}

	r := &Router{
		root:   abs,
		suffix: DefaultSuffix,
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.build == nil {
		r.build = r.buildProjection
	}
	r.cache = newProjectionCache(func(path string) (*Projection, error) {
		p, err := r.build(path)
		r.metrics.built(err)
		if err != nil {
			level.Warn(r.logger).Log("msg", "failed to build notebook projection", "notebook", path, "err", err)
			return nil, err
		}
		level.Debug(r.logger).Log("msg", "built notebook projection", "notebook", path, "files", len(p.names))
		return p, nil
	})
	return r, nil
}

func (r *Router) buildProjection(path string) (*Projection, error) {
	opts := append([]ProjectionOption{WithProjectionLogger(r.logger)}, r.projOpts...)
	return NewProjection(path, opts...)
}

// Root returns the absolute, symlink-resolved backing directory.
func (r *Router) Root() string { return r.root }

// Suffix returns the notebook file suffix.
func (r *Router) Suffix() string { return r.suffix }

func (r *Router) resolve(path string) string {
	return filepath.Join(r.root, filepath.Clean("/"+path))
}

func canonical(path string) string {
	if p, err := filepath.EvalSymlinks(path); err == nil {
		return p
	}
	return filepath.Clean(path)
}

// hasSuffix reports whether the final element of path carries the notebook
// suffix after a non-empty stem. A file named just ".ipynb" is a plain file.
func (r *Router) hasSuffix(path string) bool {
	name := filepath.Base(path)
	return len(name) > len(r.suffix) && strings.HasSuffix(name, r.suffix)
}

func (r *Router) isNotebookFile(path string) bool {
	if !r.hasSuffix(path) {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Classify decides how path is served. A path whose parent is a notebook
// file is always notebook-interior, whatever else exists on disk.
func (r *Router) Classify(path string) Route {
	real := r.resolve(path)

	if real != r.root {
		if parent := filepath.Dir(real); r.isNotebookFile(parent) {
			return Route{
				Class:    ClassNotebookInterior,
				RealPath: real,
				Notebook: canonical(parent),
				Name:     filepath.Base(real),
			}
		}
	}

	fi, err := os.Stat(real)
	switch {
	case err != nil:
		return Route{Class: ClassAbsent, RealPath: real}
	case fi.IsDir():
		return Route{Class: ClassRealDir, RealPath: real}
	case fi.Mode().IsRegular() && r.hasSuffix(real):
		return Route{Class: ClassNotebookRoot, RealPath: real, Notebook: canonical(real)}
	case fi.Mode().IsRegular():
		return Route{Class: ClassRealFile, RealPath: real}
	default:
		return Route{Class: ClassAbsent, RealPath: real}
	}
}

func (r *Router) projection(key string) (*Projection, error) {
	p, hit, err := r.cache.get(key)
	if err != nil {
		return nil, err
	}
	if hit {
		r.metrics.hit()
	} else {
		r.metrics.setCached(r.cache.len())
	}
	return p, nil
}

// Projection returns the cached projection for the notebook at path.
func (r *Router) Projection(path string) (*Projection, error) {
	route := r.Classify(path)
	if route.Class != ClassNotebookRoot {
		return nil, wrap(OpLookup, path, ErrNotFound)
	}
	p, err := r.projection(route.Notebook)
	return p, wrap(OpLookup, path, err)
}

// ReadDir lists path. Real directories list ".", ".." and their children,
// with notebook files reported as directories; notebook directories list
// their virtual files.
func (r *Router) ReadDir(path string) ([]Dirent, error) {
	r.metrics.request(OpReadDir)
	route := r.Classify(path)

	switch route.Class {
	case ClassRealDir:
		entries, err := os.ReadDir(route.RealPath)
		if err != nil {
			return nil, wrap(OpReadDir, path, err)
		}
		out := make([]Dirent, 0, len(entries)+2)
		out = append(out, Dirent{Name: ".", Dir: true}, Dirent{Name: "..", Dir: true})
		for _, e := range entries {
			out = append(out, Dirent{Name: e.Name(), Dir: r.presentsAsDir(route.RealPath, e)})
		}
		return out, nil

	case ClassNotebookRoot:
		p, err := r.projection(route.Notebook)
		if err != nil {
			return nil, wrap(OpReadDir, path, err)
		}
		names := p.List()
		out := make([]Dirent, 0, len(names))
		for _, name := range names {
			out = append(out, Dirent{Name: name, Dir: name == "." || name == ".."})
		}
		return out, nil

	case ClassNotebookInterior:
		p, err := r.projection(route.Notebook)
		if err != nil {
			return nil, wrap(OpReadDir, path, err)
		}
		if _, err := p.Attributes(route.Name); err != nil {
			return nil, wrap(OpReadDir, path, err)
		}
		return nil, wrap(OpReadDir, path, ErrNotADirectory)

	case ClassRealFile:
		return nil, wrap(OpReadDir, path, ErrNotADirectory)

	default:
		return nil, wrap(OpReadDir, path, ErrNotFound)
	}
}

func (r *Router) presentsAsDir(dir string, e os.DirEntry) bool {
	switch {
	case e.IsDir():
		return true
	case e.Type().IsRegular():
		return r.hasSuffix(e.Name())
	case e.Type()&os.ModeSymlink != 0:
		target := filepath.Join(dir, e.Name())
		fi, err := os.Stat(target)
		if err != nil {
			return false
		}
		return fi.IsDir() || (fi.Mode().IsRegular() && r.hasSuffix(target))
	default:
		return false
	}
}

// GetAttr returns the metadata for path.
func (r *Router) GetAttr(path string) (Attr, error) {
	r.metrics.request(OpGetAttr)
	route := r.Classify(path)

	switch route.Class {
	case ClassRealDir, ClassRealFile:
		a, err := statAttr(route.RealPath)
		return a, wrap(OpGetAttr, path, err)

	case ClassNotebookRoot:
		a, err := statAttr(route.RealPath)
		if err != nil {
			return Attr{}, wrap(OpGetAttr, path, err)
		}
		return DirAttr(a), nil

	case ClassNotebookInterior:
		p, err := r.projection(route.Notebook)
		if err != nil {
			return Attr{}, wrap(OpGetAttr, path, err)
		}
		a, err := p.Attributes(route.Name)
		return a, wrap(OpGetAttr, path, err)

	default:
		return Attr{}, wrap(OpGetAttr, path, ErrNotFound)
	}
}

// Open returns a read-only handle for the file at path.
func (r *Router) Open(path string) (Handle, error) {
	r.metrics.request(OpOpen)
	route := r.Classify(path)

	switch route.Class {
	case ClassNotebookInterior:
		p, err := r.projection(route.Notebook)
		if err != nil {
			return nil, wrap(OpOpen, path, err)
		}
		if _, err := p.Attributes(route.Name); err != nil {
			return nil, wrap(OpOpen, path, err)
		}
		return &virtualHandle{p: p, name: route.Name}, nil

	case ClassRealFile:
		f, err := os.Open(route.RealPath)
		if err != nil {
			return nil, wrap(OpOpen, path, err)
		}
		return &realHandle{f: f}, nil

	case ClassRealDir, ClassNotebookRoot:
		return nil, wrap(OpOpen, path, ErrIsADirectory)

	default:
		return nil, wrap(OpOpen, path, ErrNotFound)
	}
}

// Read opens path, reads up to size bytes at offset and closes it again.
func (r *Router) Read(path string, offset int64, size int) ([]byte, error) {
	h, err := r.Open(path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	r.metrics.request(OpRead)
	data, err := h.Read(offset, size)
	return data, wrap(OpRead, path, err)
}

type virtualHandle struct {
	p    *Projection
	name string
}

func (h *virtualHandle) Read(offset int64, size int) ([]byte, error) {
	return h.p.Read(h.name, offset, size)
}

func (h *virtualHandle) Close() error { return nil }

type realHandle struct {
	f *os.File
}

func (h *realHandle) Read(offset int64, size int) ([]byte, error) {
	if offset < 0 {
		offset = 0
	}
	if size <= 0 {
		return []byte{}, nil
	}
	buf := make([]byte, size)
	n, err := h.f.ReadAt(buf, offset)
	if err == io.EOF {
		err = nil
	}
	return buf[:n], err
}

func (h *realHandle) Close() error { return h.f.Close() }
