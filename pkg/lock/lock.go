// Package lock serializes compactions of a destination depot across
// processes. The lock is advisory: it only coordinates lock-aware
// compactors, never ordinary readers and writers of depot resources. Its
// handle is a well-known dotted file in the destination depot root whose
// presence outside an active compaction carries no meaning.
package lock

import "time"

// FileName is the well-known lock file name inside a destination depot.
// The zero-byte file is harmless if orphaned; on unix the kernel releases
// the flock when the descriptor closes, including on process crash.
const FileName = ".depot-compact.lock"

// pollInterval is how often a timed acquisition retries a contended lock.
const pollInterval = 100 * time.Millisecond
