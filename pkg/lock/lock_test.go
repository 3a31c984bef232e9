package lock_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/lock"
)

func TestAcquireRelease(t *testing.T) {
	root := t.TempDir()

	l, err := lock.Acquire(root, 0)
	require.NoError(t, err)
	require.NotNil(t, l)

	_, statErr := os.Stat(filepath.Join(root, lock.FileName))
	assert.NoError(t, statErr, "lock file should exist while held")

	l.Release()

	// The lock is reacquirable after release.
	l2, err := lock.Acquire(root, 0)
	require.NoError(t, err)
	l2.Release()
}

func TestAcquireContentionTimesOut(t *testing.T) {
	root := t.TempDir()

	holder, err := lock.Acquire(root, 0)
	require.NoError(t, err)
	defer holder.Release()

	start := time.Now()
	_, err = lock.Acquire(root, 300*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockTimeout))
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}

func TestAcquireAfterHolderReleases(t *testing.T) {
	root := t.TempDir()

	holder, err := lock.Acquire(root, 0)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		l, err := lock.Acquire(root, 5*time.Second)
		assert.NoError(t, err)
		if l != nil {
			l.Release()
		}
	}()

	time.Sleep(200 * time.Millisecond)
	holder.Release()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("waiter never acquired the released lock")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	root := t.TempDir()

	l, err := lock.Acquire(root, 0)
	require.NoError(t, err)
	l.Release()
	l.Release()

	var nilLock *lock.Lock
	nilLock.Release()
}

func TestAcquireMissingRoot(t *testing.T) {
	_, err := lock.Acquire(filepath.Join(t.TempDir(), "no-such-depot"), 0)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockAcquire))
}
