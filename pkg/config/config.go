// Package config loads depotc's configuration: a TOML file under the XDG
// config directory, overridden by the DEPOT_PATH environment variable.
// The depot search list is configuration for the CLI only — the core
// packages always take explicit depot lists as parameters.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/logging"
)

// EnvDepotPath is the environment variable holding the ordered depot
// search list, entries separated by the platform's path list separator.
// By convention the first entry is the writable user depot and later
// entries are shared depots.
const EnvDepotPath = "DEPOT_PATH"

// ConfigFileName is the configuration file name under the config dir.
const ConfigFileName = "depotc.toml"

// Duration is a time.Duration that unmarshals from TOML strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds depotc's settings.
type Config struct {
	// Depots is the ordered depot search list used when a command is
	// invoked without explicit depot arguments.
	Depots []string `toml:"depots"`

	// SharedDepot is the default compaction destination. When empty, the
	// last entry of Depots is used.
	SharedDepot string `toml:"shared_depot"`

	// LockTimeout bounds waiting for a contended destination lock.
	// Zero waits indefinitely.
	LockTimeout Duration `toml:"lock_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{}
}

// Path returns the location of the configuration file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "depotc", ConfigFileName)
}

// Load reads the configuration file if present and applies DEPOT_PATH on
// top. A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	return load(Path(), os.Getenv(EnvDepotPath))
}

func load(path, depotPath string) (*Config, error) {
	logger := logging.GetLogger("config")
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse config file").
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	case os.IsNotExist(err):
		logger.Trace().Str("path", path).Msg("No config file, using defaults")
	default:
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot read config file").
			WithDetail("path", path)
	}

	if depots := SplitDepotPath(depotPath); len(depots) > 0 {
		cfg.Depots = depots
	}
	return cfg, nil
}

// SplitDepotPath splits a DEPOT_PATH value into its entries, dropping
// empty segments.
func SplitDepotPath(value string) []string {
	var depots []string
	for _, entry := range strings.Split(value, string(os.PathListSeparator)) {
		if entry = strings.TrimSpace(entry); entry != "" {
			depots = append(depots, entry)
		}
	}
	return depots
}

// CompactionPlan derives the default destination and source depots from
// the configured search list: the shared depot (or the list's last entry)
// receives, every other entry contributes. ok is false when the list is
// too short to compact anything.
func (c *Config) CompactionPlan() (dest string, sources []string, ok bool) {
	if len(c.Depots) == 0 {
		return "", nil, false
	}

	dest = c.SharedDepot
	if dest == "" {
		if len(c.Depots) < 2 {
			return "", nil, false
		}
		dest = c.Depots[len(c.Depots)-1]
	}

	for _, d := range c.Depots {
		if d != dest {
			sources = append(sources, d)
		}
	}
	return dest, sources, len(sources) > 0
}
