package nbfs

import (
	"context"
	"path"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/notebook-fuse/util"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// FS implements the nbfs FUSE filesystem on top of a Router.
type FS struct {
	router *Router
	inodes *util.Inodes
	logger log.Logger
}

var _ fs.FS = (*FS)(nil)

// NewFS creates the FUSE filesystem for router.
func NewFS(router *Router, logger log.Logger) *FS {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &FS{
		router: router,
		inodes: util.NewInodes(),
		logger: logger,
	}
}

// Root returns the root directory node
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f, path: "/"}, nil
}

// errno converts err for the kernel, logging anything that is not a plain
// lookup miss.
func (f *FS) errno(op, p string, err error) error {
	e := ToErrno(err)
	if e == fuse.Errno(syscall.EIO) {
		level.Warn(f.logger).Log("msg", "request failed", "op", op, "path", p, "err", err)
	} else {
		level.Debug(f.logger).Log("msg", "request failed", "op", op, "path", p, "err", err)
	}
	return e
}

func (f *FS) attr(p string, a *fuse.Attr) error {
	attr, err := f.router.GetAttr(p)
	if err != nil {
		return f.errno(OpGetAttr, p, err)
	}
	attr.fill(f.inodes.Get(p), a)
	return nil
}

// Dir is a real directory or a notebook presented as a directory.
type Dir struct {
	fs   *FS
	path string
}

var (
	_ fs.Node               = (*Dir)(nil)
	_ fs.NodeStringLookuper = (*Dir)(nil)
	_ fs.HandleReadDirAller = (*Dir)(nil)
	_ fs.NodeSetattrer      = (*Dir)(nil)
	_ fs.NodeCreater        = (*Dir)(nil)
	_ fs.NodeMkdirer        = (*Dir)(nil)
	_ fs.NodeRemover        = (*Dir)(nil)
	_ fs.NodeRenamer        = (*Dir)(nil)
)

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	return d.fs.attr(d.path, a)
}

// Lookup resolves a child name to a node
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	child := path.Join(d.path, name)
	route := d.fs.router.Classify(child)

	// GetAttr surfaces projection failures and missing virtual files.
	if _, err := d.fs.router.GetAttr(child); err != nil {
		return nil, d.fs.errno(OpLookup, child, err)
	}

	switch route.Class {
	case ClassRealDir, ClassNotebookRoot:
		return &Dir{fs: d.fs, path: child}, nil
	default:
		return &File{fs: d.fs, path: child}, nil
	}
}

// ReadDirAll lists directory contents
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	entries, err := d.fs.router.ReadDir(d.path)
	if err != nil {
		return nil, d.fs.errno(OpReadDir, d.path, err)
	}

	dirents := make([]fuse.Dirent, 0, len(entries))
	for _, e := range entries {
		var p string
		switch e.Name {
		case ".":
			p = d.path
		case "..":
			p = path.Dir(d.path)
		default:
			p = path.Join(d.path, e.Name)
		}
		typ := fuse.DT_File
		if e.Dir {
			typ = fuse.DT_Dir
		}
		dirents = append(dirents, fuse.Dirent{
			Inode: d.fs.inodes.Get(p),
			Name:  e.Name,
			Type:  typ,
		})
	}
	return dirents, nil
}

func (d *Dir) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	return ToErrno(ErrNotSupported)
}

func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fs.Node, fs.Handle, error) {
	return nil, nil, ToErrno(ErrNotSupported)
}

func (d *Dir) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fs.Node, error) {
	return nil, ToErrno(ErrNotSupported)
}

func (d *Dir) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	return ToErrno(ErrNotSupported)
}

func (d *Dir) Rename(ctx context.Context, req *fuse.RenameRequest, newDir fs.Node) error {
	return ToErrno(ErrNotSupported)
}

// File is a real file or a virtual file inside a notebook directory.
type File struct {
	fs   *FS
	path string
}

var (
	_ fs.Node          = (*File)(nil)
	_ fs.NodeOpener    = (*File)(nil)
	_ fs.NodeSetattrer = (*File)(nil)
)

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	return f.fs.attr(f.path, a)
}

// Open opens the file read-only
func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fs.Handle, error) {
	if !req.Flags.IsReadOnly() {
		return nil, ToErrno(ErrNotSupported)
	}

	h, err := f.fs.router.Open(f.path)
	if err != nil {
		return nil, f.fs.errno(OpOpen, f.path, err)
	}
	if _, ok := h.(*virtualHandle); ok {
		// Virtual files never change while mounted.
		resp.Flags |= fuse.OpenKeepCache
	}
	return &OpenFile{fs: f.fs, path: f.path, h: h}, nil
}

func (f *File) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	return ToErrno(ErrNotSupported)
}

// OpenFile is the kernel handle for an opened File.
type OpenFile struct {
	fs   *FS
	path string
	h    Handle
}

var (
	_ fs.HandleReader   = (*OpenFile)(nil)
	_ fs.HandleReleaser = (*OpenFile)(nil)
	_ fs.HandleWriter   = (*OpenFile)(nil)
)

// Read reads data from the file
func (h *OpenFile) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	h.fs.router.metrics.request(OpRead)
	data, err := h.h.Read(req.Offset, req.Size)
	if err != nil {
		return h.fs.errno(OpRead, h.path, err)
	}
	resp.Data = data
	return nil
}

// Release closes the underlying handle
func (h *OpenFile) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	return h.h.Close()
}

func (h *OpenFile) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	return ToErrno(ErrNotSupported)
}
