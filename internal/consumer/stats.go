package consumer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats holds per-stage counters. Observability only, not part of
// correctness.
type Stats struct {
	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64

	startOnce sync.Once
	startTime time.Time
}

// StatsSnapshot is a point-in-time copy of the counters
type StatsSnapshot struct {
	Processed int64   `json:"processed"`
	Succeeded int64   `json:"succeeded"`
	Failed    int64   `json:"failed"`
	Rate      float64 `json:"rate_per_second"`
}

// recordStart marks the processing of one more message
func (s *Stats) recordStart() {
	s.startOnce.Do(func() {
		s.startTime = time.Now()
	})
	s.processed.Add(1)
}

func (s *Stats) recordSuccess() {
	s.succeeded.Add(1)
}

func (s *Stats) recordFailure() {
	s.failed.Add(1)
}

// Snapshot returns the current counters with a rolling throughput figure
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Processed: s.processed.Load(),
		Succeeded: s.succeeded.Load(),
		Failed:    s.failed.Load(),
	}

	if !s.startTime.IsZero() && snap.Processed > 0 {
		elapsed := time.Since(s.startTime).Seconds()
		if elapsed > 0 {
			snap.Rate = float64(snap.Processed) / elapsed
		}
	}

	return snap
}
