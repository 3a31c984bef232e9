package testutil

import (
	"io/fs"
	"os"
	"syscall"

	"github.com/depot-tools/depotc/pkg/types"
)

// CrossDeviceFS wraps a types.FS and refuses selected renames with EXDEV,
// simulating a source and destination that live on different volumes. The
// refuse predicate receives the rename's old and new paths; everything else
// passes straight through to the inner filesystem.
type CrossDeviceFS struct {
	inner  types.FS
	refuse func(oldpath, newpath string) bool

	// RefusedRenames counts how many renames were rejected, so tests can
	// assert the fallback path was actually taken.
	RefusedRenames int
}

// NewCrossDeviceFS wraps inner so that renames matching refuse fail with
// a cross-device link error.
func NewCrossDeviceFS(inner types.FS, refuse func(oldpath, newpath string) bool) *CrossDeviceFS {
	return &CrossDeviceFS{inner: inner, refuse: refuse}
}

func (c *CrossDeviceFS) Rename(oldpath, newpath string) error {
	if c.refuse(oldpath, newpath) {
		c.RefusedRenames++
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	return c.inner.Rename(oldpath, newpath)
}

func (c *CrossDeviceFS) Stat(name string) (fs.FileInfo, error)  { return c.inner.Stat(name) }
func (c *CrossDeviceFS) Lstat(name string) (fs.FileInfo, error) { return c.inner.Lstat(name) }
func (c *CrossDeviceFS) ReadFile(name string) ([]byte, error)   { return c.inner.ReadFile(name) }
func (c *CrossDeviceFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return c.inner.WriteFile(name, data, perm)
}
func (c *CrossDeviceFS) ReadDir(name string) ([]fs.DirEntry, error) { return c.inner.ReadDir(name) }
func (c *CrossDeviceFS) MkdirAll(path string, perm fs.FileMode) error {
	return c.inner.MkdirAll(path, perm)
}
func (c *CrossDeviceFS) MkdirTemp(dir, pattern string) (string, error) {
	return c.inner.MkdirTemp(dir, pattern)
}
func (c *CrossDeviceFS) Symlink(oldname, newname string) error {
	return c.inner.Symlink(oldname, newname)
}
func (c *CrossDeviceFS) Readlink(name string) (string, error) { return c.inner.Readlink(name) }
func (c *CrossDeviceFS) Remove(name string) error             { return c.inner.Remove(name) }
func (c *CrossDeviceFS) RemoveAll(path string) error          { return c.inner.RemoveAll(path) }
func (c *CrossDeviceFS) Chmod(name string, mode fs.FileMode) error {
	return c.inner.Chmod(name, mode)
}
