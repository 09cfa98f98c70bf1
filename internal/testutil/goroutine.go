package testutil

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineBaseline settles the runtime and returns the goroutine count to
// compare against later.
func GoroutineBaseline() int {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	return runtime.NumGoroutine()
}

// AssertNoGoroutineLeaks checks that the goroutine count returns to baseline
// within a deadline. Pull-mode sinks and the player's shutdown waiter start
// goroutines that must all exit.
func AssertNoGoroutineLeaks(t *testing.T, baseline int, margin int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		current := runtime.NumGoroutine()
		if current <= baseline+margin {
			return
		}
		if time.Now().After(deadline) {
			t.Errorf("goroutine leak: baseline=%d, current=%d, margin=%d", baseline, current, margin)
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}
