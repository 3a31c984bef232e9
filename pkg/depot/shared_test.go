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

func TestSharedResourcesSingleDepotIsEmpty(t *testing.T) {
	root := testutil.NewDepot(t, "depot")
	testutil.InstallPackage(t, root, "Zstd_jll", "a1b2c3")

	shared, err := depot.SharedResources(filesystem.NewOS(), []string{root}, nil)
	require.NoError(t, err)
	assert.Empty(t, shared, "a depot shares nothing with itself")

	shared, err = depot.SharedResources(filesystem.NewOS(), []string{root}, []string{root})
	require.NoError(t, err)
	assert.Empty(t, shared)
}

func TestSharedResourcesPair(t *testing.T) {
	d1 := testutil.NewDepot(t, "depot1")
	d2 := testutil.NewDepot(t, "depot2")
	testutil.InstallPackage(t, d1, "Zstd_jll", "a1b2c3")
	testutil.InstallPackage(t, d1, "Nettle", "112233")
	testutil.InstallPackage(t, d2, "Zstd_jll", "a1b2c3")
	testutil.InstallPackage(t, d2, "Example", "abc123")

	want := []string{filepath.Join("packages", "Zstd_jll", "a1b2c3")}

	// r present in both A and B appears whether B is a subject or only a
	// reference.
	shared, err := depot.SharedResources(filesystem.NewOS(), []string{d1, d2}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, shared)

	shared, err = depot.SharedResources(filesystem.NewOS(), []string{d1}, []string{d2})
	require.NoError(t, err)
	assert.Equal(t, want, shared)

	shared, err = depot.SharedResources(filesystem.NewOS(), []string{d2}, []string{d1})
	require.NoError(t, err)
	assert.Equal(t, want, shared)
}

func TestSharedResourcesSameNameDifferentSlug(t *testing.T) {
	d1 := testutil.NewDepot(t, "depot1")
	d2 := testutil.NewDepot(t, "depot2")
	testutil.InstallPackage(t, d1, "Zstd_jll", "a1b2c3")
	testutil.InstallPackage(t, d2, "Zstd_jll", "zzz999")

	shared, err := depot.SharedResources(filesystem.NewOS(), []string{d1, d2}, nil)
	require.NoError(t, err)
	assert.Empty(t, shared, "different slugs are different resources")
}

func TestSharedResourcesDeduplicatesDepotLists(t *testing.T) {
	d1 := testutil.NewDepot(t, "depot1")
	testutil.InstallPackage(t, d1, "Zstd_jll", "a1b2c3")

	// The same depot listed twice, once through a symlink, must not pair
	// with itself and call everything shared.
	link := filepath.Join(t.TempDir(), "depot1-link")
	require.NoError(t, os.Symlink(d1, link))

	shared, err := depot.SharedResources(filesystem.NewOS(), []string{d1, link, d1}, nil)
	require.NoError(t, err)
	assert.Empty(t, shared)
}

func TestSharedResourcesAcrossKinds(t *testing.T) {
	d1 := testutil.NewDepot(t, "depot1")
	d2 := testutil.NewDepot(t, "depot2")
	d3 := testutil.NewDepot(t, "depot3")
	testutil.InstallArtifact(t, d1, "deadbeef")
	testutil.InstallArtifact(t, d2, "deadbeef")
	testutil.InstallPackage(t, d1, "Example", "abc123")
	testutil.InstallPackage(t, d3, "Example", "abc123")
	testutil.InstallPackage(t, d3, "Scratch", "f00ba4")

	shared, err := depot.SharedResources(filesystem.NewOS(), []string{d1, d2, d3}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("artifacts", "deadbeef"),
		filepath.Join("packages", "Example", "abc123"),
	}, shared)
}

func TestSharedResourcesSubjectRestriction(t *testing.T) {
	d1 := testutil.NewDepot(t, "depot1")
	d2 := testutil.NewDepot(t, "depot2")
	d3 := testutil.NewDepot(t, "depot3")
	// d2 and d3 duplicate Scratch, but neither is a subject.
	testutil.InstallPackage(t, d2, "Scratch", "f00ba4")
	testutil.InstallPackage(t, d3, "Scratch", "f00ba4")
	testutil.InstallPackage(t, d1, "Example", "abc123")

	shared, err := depot.SharedResources(filesystem.NewOS(), []string{d1}, []string{d2, d3})
	require.NoError(t, err)
	assert.Empty(t, shared, "duplication purely among references is not reported")
}
