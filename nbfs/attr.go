package nbfs

import (
	"os"
	"time"

	"bazil.org/fuse"
	"golang.org/x/sys/unix"
)

// NominalDirSize is the size reported for a notebook presented as a directory.
const NominalDirSize = 4096

// Attr is the metadata record returned for every path in the mount.
type Attr struct {
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
	Uid   uint32
	Gid   uint32
	Mode  os.FileMode
	Nlink uint32
	Size  uint64
}

// DirAttr presents the metadata of a backing notebook file as a directory:
// owner and timestamps are kept, the mode becomes a directory.
func DirAttr(backing Attr) Attr {
	a := backing
	a.Mode = os.ModeDir | 0o775
	a.Size = NominalDirSize
	a.Nlink = 1
	return a
}

// statAttr snapshots path, following symlinks.
func statAttr(path string) (Attr, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Attr{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return attrFromStat(&st), nil
}

func (a Attr) fill(inode uint64, out *fuse.Attr) {
	out.Inode = inode
	out.Size = a.Size
	out.Blocks = (a.Size + 511) / 512
	out.Atime = a.Atime
	out.Mtime = a.Mtime
	out.Ctime = a.Ctime
	out.Mode = a.Mode
	out.Nlink = a.Nlink
	out.Uid = a.Uid
	out.Gid = a.Gid
}

func toFileMode(in uint32) os.FileMode {
	out := os.FileMode(in & 0o777)
	switch in & unix.S_IFMT {
	case unix.S_IFBLK:
		out |= os.ModeDevice
	case unix.S_IFCHR:
		out |= os.ModeDevice | os.ModeCharDevice
	case unix.S_IFDIR:
		out |= os.ModeDir
	case unix.S_IFIFO:
		out |= os.ModeNamedPipe
	case unix.S_IFLNK:
		out |= os.ModeSymlink
	case unix.S_IFREG:
	case unix.S_IFSOCK:
		out |= os.ModeSocket
	case 0:
		out |= os.ModeIrregular
	}
	if in&unix.S_ISGID != 0 {
		out |= os.ModeSetgid
	}
	if in&unix.S_ISUID != 0 {
		out |= os.ModeSetuid
	}
	if in&unix.S_ISVTX != 0 {
		out |= os.ModeSticky
	}
	return out
}
