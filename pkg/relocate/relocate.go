// Package relocate moves and removes resource directories such that no
// observer ever sees a half-populated tree at a watched path. The only
// operation that creates or destroys anything at a final resource path is
// a single atomic rename; everything else happens in dot-prefixed temp
// directories beside the target.
package relocate

import (
	"errors"
	"io/fs"
	"path/filepath"
	"syscall"

	depoterr "github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/logging"
	"github.com/depot-tools/depotc/pkg/types"
)

// Temp directory patterns. Dot-prefixed so the enumerator never mistakes
// an in-flight copy or a renamed-aside tree for a resource.
const (
	movePattern  = ".depotc-move-"
	trashPattern = ".depotc-trash-"
)

// Move relocates the resource directory at src to dest. src must exist and
// dest must not; dest's parent must already exist.
//
// The fast path is a direct atomic rename. When the filesystem refuses it
// (cross-device), the tree is copied into a fresh temp directory inside
// dest's parent — the same volume as dest — and that temp directory is
// renamed into place, so dest still appears in one atomic step. The source
// tree is then removed via Delete to complete move semantics. The temp
// directory is cleaned up on every exit path.
func Move(fsys types.FS, src, dest string) error {
	logger := logging.GetLogger("relocate")

	err := fsys.Rename(src, dest)
	if err == nil {
		logger.Trace().Str("src", src).Str("dest", dest).Msg("Renamed resource")
		return nil
	}
	if !renameUnsupported(err) {
		return depoterr.Wrap(err, depoterr.ErrRelocate, "cannot rename resource").
			WithDetail("src", src).
			WithDetail("dest", dest)
	}

	logger.Debug().Str("src", src).Str("dest", dest).Msg("Rename refused, copying across volumes")

	tmp, err := fsys.MkdirTemp(filepath.Dir(dest), movePattern)
	if err != nil {
		return depoterr.Wrap(err, depoterr.ErrDirCreate, "cannot create staging directory").
			WithDetail("dest", dest)
	}
	defer func() {
		// After a successful rename the temp name no longer exists and
		// this is a no-op; on failure it removes the partial copy.
		if rmErr := fsys.RemoveAll(tmp); rmErr != nil {
			logger.Warn().Err(rmErr).Str("path", tmp).Msg("Failed to clean up staging directory")
		}
	}()

	if info, statErr := fsys.Stat(src); statErr == nil {
		if chmodErr := fsys.Chmod(tmp, info.Mode().Perm()); chmodErr != nil {
			logger.Warn().Err(chmodErr).Str("path", tmp).Msg("Failed to carry over resource mode")
		}
	}
	if err := copyTree(fsys, src, tmp); err != nil {
		return err
	}
	if err := fsys.Rename(tmp, dest); err != nil {
		return depoterr.Wrap(err, depoterr.ErrRelocate, "cannot move staged resource into place").
			WithDetail("dest", dest)
	}

	logger.Trace().Str("src", src).Str("dest", dest).Msg("Copied resource across volumes")
	return Delete(fsys, src)
}

// Delete removes the resource directory at path. Observers of path see it
// vanish in a single atomic rename; the renamed-aside tree is then removed
// out of sight. The aside directory is cleaned up on every exit path.
func Delete(fsys types.FS, path string) error {
	logger := logging.GetLogger("relocate")

	tmp, err := fsys.MkdirTemp(filepath.Dir(path), trashPattern)
	if err != nil {
		return depoterr.Wrap(err, depoterr.ErrDirCreate, "cannot create trash directory").
			WithDetail("path", path)
	}
	defer func() {
		// On success tmp holds the renamed-aside tree; on failure it is
		// the still-empty trash directory. Either way it goes.
		if rmErr := fsys.RemoveAll(tmp); rmErr != nil {
			logger.Warn().Err(rmErr).Str("path", tmp).Msg("Failed to remove trash directory")
		}
	}()

	// Renaming a directory onto an existing empty directory is atomic:
	// path disappears completely in one filesystem operation.
	if err := fsys.Rename(path, tmp); err != nil {
		return depoterr.Wrap(err, depoterr.ErrRelocate, "cannot rename resource aside for removal").
			WithDetail("path", path)
	}

	logger.Trace().Str("path", path).Msg("Deleted resource")
	return nil
}

// renameUnsupported reports whether a rename failure means the filesystem
// cannot rename between these paths at all (so a copy fallback is worth
// attempting) rather than an ordinary I/O error.
func renameUnsupported(err error) bool {
	return errors.Is(err, syscall.EXDEV) || errors.Is(err, syscall.EINVAL)
}

// copyTree recursively copies the contents of src into the existing
// directory dest, preserving file modes and symlink targets.
func copyTree(fsys types.FS, src, dest string) error {
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return depoterr.Wrap(err, depoterr.ErrCopy, "cannot read source directory").
			WithDetail("path", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		info, err := fsys.Lstat(srcPath)
		if err != nil {
			return depoterr.Wrap(err, depoterr.ErrCopy, "cannot stat source entry").
				WithDetail("path", srcPath)
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := fsys.Readlink(srcPath)
			if err != nil {
				return depoterr.Wrap(err, depoterr.ErrCopy, "cannot read symlink").
					WithDetail("path", srcPath)
			}
			if err := fsys.Symlink(target, destPath); err != nil {
				return depoterr.Wrap(err, depoterr.ErrCopy, "cannot create symlink").
					WithDetail("path", destPath)
			}

		case info.IsDir():
			if err := fsys.MkdirAll(destPath, info.Mode().Perm()); err != nil {
				return depoterr.Wrap(err, depoterr.ErrDirCreate, "cannot create directory").
					WithDetail("path", destPath)
			}
			if err := copyTree(fsys, srcPath, destPath); err != nil {
				return err
			}

		default:
			data, err := fsys.ReadFile(srcPath)
			if err != nil {
				return depoterr.Wrap(err, depoterr.ErrCopy, "cannot read file").
					WithDetail("path", srcPath)
			}
			if err := fsys.WriteFile(destPath, data, info.Mode().Perm()); err != nil {
				return depoterr.Wrap(err, depoterr.ErrCopy, "cannot write file").
					WithDetail("path", destPath)
			}
		}
	}
	return nil
}
