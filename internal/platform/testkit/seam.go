package testkit

import (
	"sync"
	"testing"
)

// Swap replaces a seam (a function variable or any settable value) for one
// test and restores the original on cleanup. Used to neuter the fetcher's
// sleep during retry tests
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	saved := *target
	*target = replacement
	t.Cleanup(func() { *target = saved })
}

var serialMu sync.Mutex

// Serial runs the test under a process-wide lock; tests that mutate shared
// package state opt in so they cannot interleave
func Serial(t *testing.T) {
	t.Helper()
	serialMu.Lock()
	t.Cleanup(func() { serialMu.Unlock() })
}
