//go:build linux

package nbfs

import (
	"time"

	"golang.org/x/sys/unix"
)

func attrFromStat(st *unix.Stat_t) Attr {
	return Attr{
		Atime: time.Unix(st.Atim.Unix()),
		Mtime: time.Unix(st.Mtim.Unix()),
		Ctime: time.Unix(st.Ctim.Unix()),
		Uid:   st.Uid,
		Gid:   st.Gid,
		Mode:  toFileMode(uint32(st.Mode)),
		Nlink: uint32(st.Nlink),
		Size:  uint64(st.Size),
	}
}
