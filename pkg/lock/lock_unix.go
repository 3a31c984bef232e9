//go:build unix

package lock

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	depoterr "github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/logging"
)

// Lock holds an exclusive flock on the destination depot's lock file.
type Lock struct {
	path string
	file *os.File
}

// Acquire takes the compaction lock for the depot rooted at depotRoot.
// With timeout <= 0 the call blocks until the lock is available; otherwise
// a contended lock that cannot be taken within the timeout fails with
// ErrLockTimeout.
func Acquire(depotRoot string, timeout time.Duration) (*Lock, error) {
	path := filepath.Join(depotRoot, FileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, depoterr.Wrap(err, depoterr.ErrLockAcquire, "cannot open lock file").
			WithDetail("path", path)
	}

	if timeout <= 0 {
		if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
			_ = f.Close()
			return nil, depoterr.Wrap(err, depoterr.ErrLockAcquire, "cannot lock lock file").
				WithDetail("path", path)
		}
		return &Lock{path: path, file: f}, nil
	}

	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &Lock{path: path, file: f}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			_ = f.Close()
			return nil, depoterr.Wrap(err, depoterr.ErrLockAcquire, "cannot lock lock file").
				WithDetail("path", path)
		}
		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, depoterr.Newf(depoterr.ErrLockTimeout, "lock held by another compaction after %s", timeout).
				WithDetail("path", path)
		}
		time.Sleep(pollInterval)
	}
}

// Release unlocks and closes the lock file. Safe to call multiple times;
// subsequent calls are no-ops.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	logger := logging.GetLogger("lock")
	// LOCK_UN before Close for explicitness; Close also releases the flock.
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		logger.Debug().Err(err).Str("path", l.path).Msg("Flock unlock failed")
	}
	if err := l.file.Close(); err != nil {
		logger.Debug().Err(err).Str("path", l.path).Msg("Lock file close failed")
	}
	l.file = nil
}
