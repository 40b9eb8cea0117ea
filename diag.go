package winepoll

import (
	"os"
	"strconv"
	"sync"
)

// diagCounters backs Stats(). submitFailures is updated from drainAttention,
// which Wait may in principle be extended to call from more than one place
// later, so it alone uses atomic access defensively; everything else is
// only ever touched from the single caller goroutine a Port requires.
type diagCounters struct {
	submissions    uint64
	submitFailures uint64
	staleDiscards  uint64
	rearms         uint64
}

// Stats is a snapshot of a Port's internal counters, a supplemented
// feature (SPEC_FULL.md §5.2) gated by WINEPOLL_DIAG so it costs nothing
// when unused; the values it reports are all already computed in the
// course of Wait, so exposing them adds bookkeeping, never changes
// control flow.
type Stats struct {
	Submissions    uint64
	SubmitFailures uint64
	StaleDiscards  uint64
	Rearms         uint64
	AttentionLen   int
	InFlight       int
}

var (
	maxBatchOnce sync.Once
	maxBatchVal  int

	diagOnce    sync.Once
	diagEnabled bool
)

// maxBatch returns the cap on completions dequeued per wait call
// (WINEPOLL_MAX_BATCH), parsed once and clamped to [1, 512], exactly like
// writable_throttle.go's getWritableInterval memoizes its own env-driven
// knob.
func maxBatch() int {
	maxBatchOnce.Do(func() {
		const (
			def = 64
			min = 1
			max = 512
		)
		n := def
		if v := os.Getenv("WINEPOLL_MAX_BATCH"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				n = parsed
			}
		}
		if n < min {
			n = min
		} else if n > max {
			n = max
		}
		maxBatchVal = n
	})
	return maxBatchVal
}

// diagnosticsEnabled reports whether WINEPOLL_DIAG is set to a truthy
// value, memoized the same way.
func diagnosticsEnabled() bool {
	diagOnce.Do(func() {
		v := os.Getenv("WINEPOLL_DIAG")
		diagEnabled = v == "1" || v == "true" || v == "on"
	})
	return diagEnabled
}
