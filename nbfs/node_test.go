package nbfs

import (
	"context"
	"syscall"
	"testing"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	_, r := newTestTree(t)
	return NewFS(r, nil)
}

func lookup(t *testing.T, n fs.Node, names ...string) fs.Node {
	t.Helper()
	for _, name := range names {
		d, ok := n.(*Dir)
		require.True(t, ok, "%T is not a directory", n)
		child, err := d.Lookup(context.Background(), name)
		require.NoError(t, err)
		n = child
	}
	return n
}

func TestFSRoot(t *testing.T) {
	f := newTestFS(t)
	root, err := f.Root()
	require.NoError(t, err)

	var a fuse.Attr
	require.NoError(t, root.Attr(context.Background(), &a))
	require.EqualValues(t, 1, a.Inode)
	require.True(t, a.Mode.IsDir())
}

func TestDirLookup(t *testing.T) {
	f := newTestFS(t)
	root, _ := f.Root()
	dir := root.(*Dir)
	ctx := context.Background()

	nb, err := dir.Lookup(ctx, "nb.ipynb")
	require.NoError(t, err)
	require.IsType(t, &Dir{}, nb)

	var a fuse.Attr
	require.NoError(t, nb.Attr(ctx, &a))
	require.True(t, a.Mode.IsDir())
	require.EqualValues(t, NominalDirSize, a.Size)

	file, err := dir.Lookup(ctx, "notes.txt")
	require.NoError(t, err)
	require.IsType(t, &File{}, file)

	cell := lookup(t, nb, "cell1.py")
	require.IsType(t, &File{}, cell)
	require.NoError(t, cell.Attr(ctx, &a))
	require.EqualValues(t, len("print(1)"), a.Size)
	require.EqualValues(t, 1, a.Blocks)

	_, err = dir.Lookup(ctx, "missing")
	require.Equal(t, fuse.Errno(syscall.ENOENT), err)

	_, err = nb.(*Dir).Lookup(ctx, "cell42.md")
	require.Equal(t, fuse.Errno(syscall.ENOENT), err)
}

func TestDirReadDirAll(t *testing.T) {
	f := newTestFS(t)
	root, _ := f.Root()
	nb := lookup(t, root, "nb.ipynb").(*Dir)

	dirents, err := nb.ReadDirAll(context.Background())
	require.NoError(t, err)

	var names []string
	for _, d := range dirents {
		names = append(names, d.Name)
		require.NotZero(t, d.Inode)
		if d.Name == "." || d.Name == ".." {
			require.Equal(t, fuse.DT_Dir, d.Type)
		} else {
			require.Equal(t, fuse.DT_File, d.Type)
		}
	}
	require.Equal(t, []string{".", "..", "cell0.md", "cell1.py", "cell1_out0_stdout.txt"}, names)

	// Inodes stay stable between listings and lookups.
	again, err := nb.ReadDirAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, dirents, again)

	var a fuse.Attr
	require.NoError(t, lookup(t, nb, "cell0.md").Attr(context.Background(), &a))
	require.Equal(t, dirents[2].Inode, a.Inode)
}

func TestFileOpenRead(t *testing.T) {
	f := newTestFS(t)
	root, _ := f.Root()
	ctx := context.Background()

	testCases := []struct {
		name   string
		path   []string
		offset int64
		size   int
		want   string
	}{
		{name: "virtual", path: []string{"nb.ipynb", "cell1_out0_stdout.txt"}, size: 4096, want: "1\n"},
		{name: "virtual offset", path: []string{"nb.ipynb", "cell0.md"}, offset: 2, size: 4096, want: "Title"},
		{name: "nested notebook", path: []string{"subdir", "deep.ipynb", "cell1.py"}, size: 5, want: "print"},
		{name: "real", path: []string{"notes.txt"}, offset: 6, size: 4, want: "text"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			file := lookup(t, root, tc.path...).(*File)

			var oresp fuse.OpenResponse
			h, err := file.Open(ctx, &fuse.OpenRequest{Flags: fuse.OpenReadOnly}, &oresp)
			require.NoError(t, err)

			handle := h.(*OpenFile)
			var resp fuse.ReadResponse
			require.NoError(t, handle.Read(ctx, &fuse.ReadRequest{Offset: tc.offset, Size: tc.size}, &resp))
			require.Equal(t, tc.want, string(resp.Data))
			require.NoError(t, handle.Release(ctx, &fuse.ReleaseRequest{}))
		})
	}
}

func TestMutationsNotSupported(t *testing.T) {
	f := newTestFS(t)
	root, _ := f.Root()
	dir := root.(*Dir)
	ctx := context.Background()
	enotsup := fuse.Errno(syscall.ENOTSUP)

	file := lookup(t, root, "nb.ipynb", "cell0.md").(*File)

	_, err := file.Open(ctx, &fuse.OpenRequest{Flags: fuse.OpenWriteOnly}, &fuse.OpenResponse{})
	require.Equal(t, enotsup, err)
	_, err = file.Open(ctx, &fuse.OpenRequest{Flags: fuse.OpenReadWrite}, &fuse.OpenResponse{})
	require.Equal(t, enotsup, err)

	require.Equal(t, enotsup, file.Setattr(ctx, &fuse.SetattrRequest{}, &fuse.SetattrResponse{}))
	require.Equal(t, enotsup, dir.Setattr(ctx, &fuse.SetattrRequest{}, &fuse.SetattrResponse{}))

	_, _, err = dir.Create(ctx, &fuse.CreateRequest{Name: "new.md"}, &fuse.CreateResponse{})
	require.Equal(t, enotsup, err)
	_, err = dir.Mkdir(ctx, &fuse.MkdirRequest{Name: "new"})
	require.Equal(t, enotsup, err)
	require.Equal(t, enotsup, dir.Remove(ctx, &fuse.RemoveRequest{Name: "notes.txt"}))
	require.Equal(t, enotsup, dir.Rename(ctx, &fuse.RenameRequest{OldName: "notes.txt", NewName: "x"}, dir))

	h, err := file.Open(ctx, &fuse.OpenRequest{Flags: fuse.OpenReadOnly}, &fuse.OpenResponse{})
	require.NoError(t, err)
	require.Equal(t, enotsup, h.(*OpenFile).Write(ctx, &fuse.WriteRequest{Data: []byte("x")}, &fuse.WriteResponse{}))
}
