package depot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-tools/depotc/pkg/depot"
	"github.com/depot-tools/depotc/pkg/filesystem"
	"github.com/depot-tools/depotc/pkg/testutil"
)

func TestResources(t *testing.T) {
	root := testutil.NewDepot(t, "depot")
	testutil.InstallPackage(t, root, "Zstd_jll", "a1b2c3")
	testutil.InstallPackage(t, root, "Zstd_jll", "d4e5f6")
	testutil.InstallPackage(t, root, "Nettle", "112233")
	testutil.InstallArtifact(t, root, "deadbeef")

	resources, err := depot.Resources(filesystem.NewOS(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("artifacts", "deadbeef"),
		filepath.Join("packages", "Nettle", "112233"),
		filepath.Join("packages", "Zstd_jll", "a1b2c3"),
		filepath.Join("packages", "Zstd_jll", "d4e5f6"),
	}, resources)
}

func TestResourcesEmptyDepot(t *testing.T) {
	root := testutil.NewDepot(t, "empty")
	resources, err := depot.Resources(filesystem.NewOS(), root)
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestResourcesSkipsNonDirectories(t *testing.T) {
	root := testutil.NewDepot(t, "depot")
	testutil.InstallPackage(t, root, "Example", "abc123")

	// Stray files at every level must not show up as resources.
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages", "README.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages", "Example", "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "artifacts"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "artifacts", "checksum"), []byte("x"), 0644))

	resources, err := depot.Resources(filesystem.NewOS(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("packages", "Example", "abc123")}, resources)
}

func TestResourcesSkipsDottedEntries(t *testing.T) {
	root := testutil.NewDepot(t, "depot")
	testutil.InstallArtifact(t, root, "cafe00")

	// In-flight staging directories are dotted and must stay invisible.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "artifacts", ".depotc-move-123"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages", ".hidden", "slug"), 0755))

	resources, err := depot.Resources(filesystem.NewOS(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("artifacts", "cafe00")}, resources)
}

func TestResourcesRepeatable(t *testing.T) {
	root := testutil.NewDepot(t, "depot")
	testutil.InstallPackage(t, root, "Scratch", "f00")
	testutil.InstallArtifact(t, root, "0ff")

	first, err := depot.Resources(filesystem.NewOS(), root)
	require.NoError(t, err)
	second, err := depot.Resources(filesystem.NewOS(), root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
