// Package compact relocates duplicated resources from source depots into a
// designated shared depot. Discovery is read-only and unlocked; the
// mutation loop runs under an advisory per-destination lock, so concurrent
// compactions of the same destination serialize while ordinary resource
// readers are never blocked.
package compact

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/depot-tools/depotc/pkg/depot"
	"github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/lock"
	"github.com/depot-tools/depotc/pkg/logging"
	"github.com/depot-tools/depotc/pkg/relocate"
	"github.com/depot-tools/depotc/pkg/types"
)

// Action describes what the compactor did (or, in dry-run mode, would do)
// with one resource under one source depot.
type Action string

const (
	// ActionMove relocates the source copy into the destination depot.
	ActionMove Action = "move"
	// ActionDelete discards the source copy; the destination already
	// holds the canonical one.
	ActionDelete Action = "delete"
	// ActionSkip means the resource was no longer present under the
	// source by the time the loop reached it.
	ActionSkip Action = "skip"
)

// Progress is invoked once per (source depot, resource) pair as the
// compaction loop processes it.
type Progress func(source, resource string, action Action)

// Report summarizes one compaction run.
type Report struct {
	Destination string
	Shared      []string
	Moved       int
	Deleted     int
	Skipped     int
	DryRun      bool
}

// Compactor drives shared-resource discovery and relocation.
type Compactor struct {
	fs          types.FS
	logger      zerolog.Logger
	lockTimeout time.Duration
	dryRun      bool
	progress    Progress
}

// Option configures a Compactor.
type Option func(*Compactor)

// WithLockTimeout bounds how long Compact waits for a contended
// destination lock. Zero (the default) waits indefinitely.
func WithLockTimeout(d time.Duration) Option {
	return func(c *Compactor) { c.lockTimeout = d }
}

// WithDryRun makes Compact report planned actions without mutating any
// depot. The destination lock is still taken so the plan reflects a state
// no concurrent compaction is changing.
func WithDryRun(dryRun bool) Option {
	return func(c *Compactor) { c.dryRun = dryRun }
}

// WithProgress registers a per-resource progress callback.
func WithProgress(p Progress) Option {
	return func(c *Compactor) { c.progress = p }
}

// New creates a Compactor operating through the given filesystem.
func New(fsys types.FS, opts ...Option) *Compactor {
	c := &Compactor{
		fs:     fsys,
		logger: logging.GetLogger("compact"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compact moves every resource shared among sources and refs into dest,
// and deletes source copies of resources dest already holds. A nil or
// empty refs list means refs = sources; dest itself is always added to the
// reference set so existing destination copies count as duplicates.
//
// The run is idempotent: a second invocation with no intervening external
// mutation is a no-op. On the first relocation failure the underlying
// error is returned; already-processed resources stay compacted and the
// rest stay put, so re-running after a failure is safe.
func (c *Compactor) Compact(dest string, sources, refs []string) (*Report, error) {
	start := time.Now()
	defer logging.LogDuration(start, "compact")

	// The destination may not exist yet; it becomes a depot by receiving
	// its first resource. The root must exist before canonicalization so
	// symlinks resolve, and to hold the lock file.
	if err := c.fs.MkdirAll(dest, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrDepotAccess, "cannot create destination depot root").
			WithDetail("path", dest)
	}
	destRoot, err := depot.Canonicalize(dest)
	if err != nil {
		return nil, err
	}

	srcRoots, err := depot.CanonicalizeAll(sources)
	if err != nil {
		return nil, err
	}

	if len(refs) == 0 {
		refs = sources
	}
	effectiveRefs := append(append([]string{}, refs...), destRoot)

	shared, err := depot.SharedResources(c.fs, srcRoots, effectiveRefs)
	if err != nil {
		return nil, err
	}

	report := &Report{Destination: destRoot, Shared: shared, DryRun: c.dryRun}

	c.logger.Info().
		Str("destination", destRoot).
		Int("sources", len(srcRoots)).
		Int("shared", len(shared)).
		Bool("dryRun", c.dryRun).
		Msg("Starting compaction")

	lk, err := lock.Acquire(destRoot, c.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer lk.Release()

	for _, src := range srcRoots {
		if src == destRoot {
			continue
		}
		for _, resource := range shared {
			action, err := c.compactOne(destRoot, src, resource)
			if err != nil {
				return report, err
			}
			switch action {
			case ActionMove:
				report.Moved++
			case ActionDelete:
				report.Deleted++
			case ActionSkip:
				report.Skipped++
			}
			if c.progress != nil {
				c.progress(src, resource, action)
			}
		}
	}

	c.logger.Info().
		Str("destination", destRoot).
		Int("moved", report.Moved).
		Int("deleted", report.Deleted).
		Int("skipped", report.Skipped).
		Msg("Compaction finished")
	return report, nil
}

// compactOne handles a single (source depot, resource) pair.
func (c *Compactor) compactOne(destRoot, src, resource string) (Action, error) {
	srcPath := filepath.Join(src, resource)

	// The discovery snapshot is unlocked; the resource may be gone by now.
	info, err := c.fs.Stat(srcPath)
	if err != nil || !info.IsDir() {
		c.logger.Trace().Str("path", srcPath).Msg("Resource no longer present under source, skipping")
		return ActionSkip, nil
	}

	destPath := filepath.Join(destRoot, resource)
	if _, err := c.fs.Stat(destPath); err == nil {
		// Destination already holds the canonical copy.
		c.logger.Debug().Str("path", srcPath).Msg("Discarding duplicate of destination copy")
		if c.dryRun {
			return ActionDelete, nil
		}
		return ActionDelete, relocate.Delete(c.fs, srcPath)
	}

	c.logger.Debug().Str("src", srcPath).Str("dest", destPath).Msg("Moving resource into destination")
	if c.dryRun {
		return ActionMove, nil
	}
	if err := c.fs.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return ActionMove, errors.Wrap(err, errors.ErrDirCreate, "cannot create destination parent").
			WithDetail("path", filepath.Dir(destPath))
	}
	return ActionMove, relocate.Move(c.fs, srcPath, destPath)
}
