package depot

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/depot-tools/depotc/pkg/logging"
	"github.com/depot-tools/depotc/pkg/types"
)

// Resources returns the sorted depot-relative paths of every resource
// installed under the given depot root: packages/<Name>/<Slug> for package
// trees and artifacts/<Entry> for artifact trees.
//
// The walk is read-only and reflects a point-in-time snapshot; callers
// tolerate concurrent mutation of the depot. A depot without a packages or
// artifacts subdirectory simply contributes no entries of that kind.
func Resources(fsys types.FS, depotPath string) ([]string, error) {
	logger := logging.GetLogger("depot.enumerate")

	root, err := Canonicalize(depotPath)
	if err != nil {
		return nil, err
	}

	var resources []string

	// Packages are nested two levels deep: name, then content slug.
	for _, name := range subdirs(fsys, filepath.Join(root, PackagesDir)) {
		for _, slug := range subdirs(fsys, filepath.Join(root, PackagesDir, name)) {
			resources = append(resources, filepath.Join(PackagesDir, name, slug))
		}
	}

	for _, entry := range subdirs(fsys, filepath.Join(root, ArtifactsDir)) {
		resources = append(resources, filepath.Join(ArtifactsDir, entry))
	}

	sort.Strings(resources)

	logger.Trace().Str("depot", root).Int("count", len(resources)).Msg("Enumerated depot resources")
	return resources, nil
}

// subdirs lists the immediate child directories of dir, skipping anything
// that is not a directory. Dot-prefixed names are skipped too: lock files
// and in-flight relocation temp directories are dotted and must never be
// mistaken for resources. A missing or unreadable dir yields nothing:
// absence of expected substructure means "no resources of that kind".
func subdirs(fsys types.FS, dir string) []string {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}
