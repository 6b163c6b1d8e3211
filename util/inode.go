package util

import (
	"sync"

	"github.com/taigrr/colorhash"
	"go.uber.org/atomic"
)

const (
	// RootInode is the inode number of the mount root.
	RootInode uint64 = 1

	// hashSpace bounds hash-derived inodes. Numbers handed out after a
	// collision start above it.
	hashSpace uint64 = 1 << 31
)

// Inodes assigns each mount path a stable inode number for the life of the
// mount. The first choice is derived from a hash of the path so numbers
// tend to stay the same across remounts; a colliding path gets the next
// number from a counter instead.
type Inodes struct {
	mu     sync.Mutex // protects byPath and used
	byPath map[string]uint64
	used   map[uint64]bool
	next   atomic.Uint64
}

// NewInodes returns a table holding only the root path "/".
func NewInodes() *Inodes {
	in := &Inodes{
		byPath: map[string]uint64{"/": RootInode},
		used:   map[uint64]bool{RootInode: true},
	}
	in.next.Store(hashSpace)
	return in
}

// Get returns the inode for path, assigning one on first use.
func (in *Inodes) Get(path string) uint64 {
	in.mu.Lock()
	defer in.mu.Unlock()

	if ino, ok := in.byPath[path]; ok {
		return ino
	}

	ino := hashInode(path)
	for in.used[ino] {
		ino = in.next.Inc()
	}
	in.byPath[path] = ino
	in.used[ino] = true
	return ino
}

// Len returns the number of paths with an assigned inode.
func (in *Inodes) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.byPath)
}

func hashInode(path string) uint64 {
	h := uint64(colorhash.HashString(path))
	return RootInode + 1 + h%(hashSpace-RootInode-1)
}
