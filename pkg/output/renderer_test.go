package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/depot-tools/depotc/pkg/compact"
	"github.com/depot-tools/depotc/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"text", "json", "yaml"} {
		format, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, Format(valid), format)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestResourcesText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	err := r.Resources("/depots/d1", []string{"artifacts/deadbeef", "packages/Zstd_jll/a1b2c3"})
	require.NoError(t, err)

	// A plain buffer is not a TTY, so output carries no escape codes.
	out := buf.String()
	assert.Contains(t, out, "/depots/d1\n")
	assert.Contains(t, out, "artifacts/deadbeef\n")
	assert.Contains(t, out, "packages/Zstd_jll/a1b2c3\n")
	assert.Contains(t, out, "2 resource(s)")
	assert.NotContains(t, out, "\x1b[")
}

func TestResourcesJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	require.NoError(t, r.Resources("/depots/d1", []string{"artifacts/deadbeef"}))

	var decoded struct {
		Depot     string   `json:"depot"`
		Resources []string `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/depots/d1", decoded.Depot)
	assert.Equal(t, []string{"artifacts/deadbeef"}, decoded.Resources)
}

func TestResourcesYAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatYAML)

	require.NoError(t, r.Resources("", []string{"packages/Example/abc123"}))

	var decoded struct {
		Depot     string   `yaml:"depot"`
		Resources []string `yaml:"resources"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Empty(t, decoded.Depot)
	assert.Equal(t, []string{"packages/Example/abc123"}, decoded.Resources)
}

func TestReportText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	require.NoError(t, r.Report(&compact.Report{
		Destination: "/srv/shared",
		Shared:      []string{"packages/Zstd_jll/a1b2c3"},
		Moved:       1,
		Deleted:     2,
		Skipped:     3,
	}))

	out := buf.String()
	assert.Contains(t, out, "1 shared resource(s) compacted into /srv/shared")
	assert.Contains(t, out, "moved 1, deleted 2, skipped 3")
}

func TestReportDryRunText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	require.NoError(t, r.Report(&compact.Report{
		Destination: "/srv/shared",
		DryRun:      true,
	}))
	assert.Contains(t, buf.String(), "would compact into /srv/shared")
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	require.NoError(t, r.Report(&compact.Report{
		Destination: "/srv/shared",
		Shared:      []string{"artifacts/deadbeef"},
		Moved:       1,
		DryRun:      true,
	}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/srv/shared", decoded["destination"])
	assert.Equal(t, true, decoded["dry_run"])
}
