// Package depot models depot trees: directory roots holding installed
// packages and build artifacts. A depot is identified by its canonical
// absolute path; a resource is identified by a depot-relative path such as
// packages/<Name>/<Slug> or artifacts/<Entry>. Resource identity across
// depots is path equality, never content comparison — the packaging system
// guarantees identically named resources are identical.
package depot

import (
	"os"
	"path/filepath"

	"github.com/depot-tools/depotc/pkg/errors"
)

// Well-known subdirectories of a depot root. Anything else under a depot
// is ignored.
const (
	PackagesDir  = "packages"
	ArtifactsDir = "artifacts"
)

// Canonicalize resolves a depot path to its canonical absolute form.
// Symlinks are resolved when the path exists so that two references to the
// same depot always compare equal. A depot that does not exist yet is still
// a valid reference (it simply contains no resources), so a missing path is
// not an error.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "depot path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrDepotInvalid, "cannot resolve depot path").
			WithDetail("path", path)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return filepath.Clean(abs), nil
		}
		return "", errors.Wrap(err, errors.ErrDepotAccess, "cannot canonicalize depot path").
			WithDetail("path", abs)
	}
	return resolved, nil
}

// CanonicalizeAll canonicalizes a list of depot paths and drops duplicates,
// preserving first-occurrence order. Comparing depots by anything other
// than canonical path risks pairing a depot against itself.
func CanonicalizeAll(paths []string) ([]string, error) {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		canonical, err := Canonicalize(p)
		if err != nil {
			return nil, err
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out, nil
}
