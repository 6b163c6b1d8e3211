package nbfs

import (
	"errors"
	"os"
	"syscall"

	"bazil.org/fuse"
)

// Sentinel errors for package nbfs.
// These errors can be checked with errors.Is() for specific error handling.
var (
	ErrNotFound      = errors.New("no such file or directory")
	ErrNotADirectory = errors.New("not a directory")
	ErrIsADirectory  = errors.New("is a directory")
	ErrNotSupported  = errors.New("operation not supported")

	// Projection construction errors
	ErrNameCollision    = errors.New("virtual file name collision")
	ErrMissingExtension = errors.New("notebook has code cells but no language_info.file_extension")
)

// Operation names recorded in Error.
const (
	OpLookup  = "lookup"
	OpReadDir = "readdir"
	OpGetAttr = "getattr"
	OpOpen    = "open"
	OpRead    = "read"
)

// Error records the router operation and path that failed.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// ToErrno maps an error returned by the router or a projection onto the
// errno reported to the kernel. Unrecognized errors, including notebook
// decode failures, become EIO.
func ToErrno(err error) fuse.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fuse.Errno(syscall.ENOENT)
	case errors.Is(err, ErrNotADirectory):
		return fuse.Errno(syscall.ENOTDIR)
	case errors.Is(err, ErrIsADirectory):
		return fuse.Errno(syscall.EISDIR)
	case errors.Is(err, ErrNotSupported):
		return fuse.Errno(syscall.ENOTSUP)
	case errors.Is(err, os.ErrPermission):
		return fuse.Errno(syscall.EACCES)
	default:
		return fuse.Errno(syscall.EIO)
	}
}
