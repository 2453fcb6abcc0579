package leaktest

import (
	"testing"
	"time"
)

func TestGoroutineChecker_NoLeak(t *testing.T) {
	checker := NewGoroutineChecker(t)

	// Do nothing - no goroutines leaked

	checker.Check(0)
}

func TestGoroutineChecker_WithTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go func() {
		<-done
	}()

	time.Sleep(20 * time.Millisecond)

	// Check with tolerance of 1 - should pass
	checker.Check(1)

	close(done)
}

func TestCheck_WaitsForExitingGoroutines(t *testing.T) {
	defer Check(t)()

	go func() {
		time.Sleep(50 * time.Millisecond)
	}()
}

func TestCheckNoGoroutineLeak(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		done := make(chan struct{})
		go func() {
			defer close(done)
		}()
		<-done
	})
}
