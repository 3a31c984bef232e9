// Package testutil provides helpers for building depot trees in temp
// directories and fault-injecting filesystem implementations.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewDepot creates an empty depot root inside the test's temp directory.
func NewDepot(t *testing.T, name string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(root, 0755))
	return root
}

// InstallPackage creates a package resource packages/<name>/<slug> under
// the depot, populated with a deterministic content file so relocation
// tests can verify trees arrive intact.
func InstallPackage(t *testing.T, depot, name, slug string) {
	t.Helper()
	installResource(t, filepath.Join(depot, "packages", name, slug), name+"-"+slug)
}

// InstallArtifact creates an artifact resource artifacts/<entry> under the
// depot.
func InstallArtifact(t *testing.T, depot, entry string) {
	t.Helper()
	installResource(t, filepath.Join(depot, "artifacts", entry), entry)
}

func installResource(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.txt"), []byte(content+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.txt"), []byte("lib "+content+"\n"), 0644))
}

// DirExists reports whether path exists and is a directory.
func DirExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		require.True(t, os.IsNotExist(err), "unexpected stat error for %s: %v", path, err)
		return false
	}
	return info.IsDir()
}

// ReadContent returns the deterministic content file written by
// InstallPackage/InstallArtifact for the resource rooted at dir.
func ReadContent(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "content.txt"))
	require.NoError(t, err)
	return string(data)
}
