//go:build !unix

package lock

import (
	"os"
	"path/filepath"
	"time"

	depoterr "github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/logging"
)

// Lock holds the exclusively created lock file on platforms without flock.
// Unlike the flock variant, an orphaned file from a crashed holder blocks
// later compactions until removed by hand.
type Lock struct {
	path string
	held bool
}

// Acquire takes the compaction lock by creating the lock file exclusively,
// polling while another compaction holds it. With timeout <= 0 the call
// waits indefinitely; otherwise expiry fails with ErrLockTimeout.
func Acquire(depotRoot string, timeout time.Duration) (*Lock, error) {
	path := filepath.Join(depotRoot, FileName)

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_ = f.Close()
			return &Lock{path: path, held: true}, nil
		}
		if !os.IsExist(err) {
			return nil, depoterr.Wrap(err, depoterr.ErrLockAcquire, "cannot create lock file").
				WithDetail("path", path)
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, depoterr.Newf(depoterr.ErrLockTimeout, "lock held by another compaction after %s", timeout).
				WithDetail("path", path)
		}
		time.Sleep(pollInterval)
	}
}

// Release removes the lock file. Safe to call multiple times; subsequent
// calls are no-ops.
func (l *Lock) Release() {
	if l == nil || !l.held {
		return
	}
	if err := os.Remove(l.path); err != nil {
		logging.GetLogger("lock").Debug().Err(err).Str("path", l.path).Msg("Lock file removal failed")
	}
	l.held = false
}
