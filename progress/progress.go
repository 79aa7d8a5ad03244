// Package progress implements periodic throughput and ETA accounting
// for an in-flight file transfer.
package progress

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"goshell/util"
)

// DefaultInterval is the time between status reports.
const DefaultInterval = 5 * time.Second

// DefaultInitialDelay is how long the tracker waits before the first
// report, so short transfers finish silently.
const DefaultInitialDelay = 1 * time.Second

// Sample is a point-in-time view of a transfer: recomputed on each
// tick, never persisted.
type Sample struct {
	Done       int64
	Total      int64
	Percent    int           // clamped to [0, 100]
	Elapsed    time.Duration
	Throughput float64       // bytes per second; 0 until time has passed
	ETA        time.Duration // -1 when throughput is zero (unbounded)
}

// Tracker accumulates transferred-byte counts from a copy loop and
// periodically reports a formatted status line.
//
// The counter is atomic but otherwise unsynchronized against the
// reporting tick: a tick may observe a slightly stale count. That is
// fine — samples are advisory display values, never used for
// correctness.
type Tracker struct {
	total    int64
	done     atomic.Int64
	start    time.Time
	interval time.Duration
	delay    time.Duration

	report func(line string)

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewTracker creates a tracker for a transfer of total bytes. Each
// periodic status line is passed to report; a nil report discards
// them.
func NewTracker(total int64, report func(line string)) *Tracker {
	if report == nil {
		report = func(string) {}
	}
	return &Tracker{
		total:    total,
		interval: DefaultInterval,
		delay:    DefaultInitialDelay,
		report:   report,
		stopCh:   make(chan struct{}),
	}
}

// SetInterval overrides the reporting cadence. Must be called before
// Start.
func (t *Tracker) SetInterval(delay, interval time.Duration) {
	t.delay = delay
	t.interval = interval
}

// Start begins the reporting task. The clock for elapsed time starts
// here.
func (t *Tracker) Start() {
	t.start = time.Now()
	go t.loop()
}

// Add records n more transferred bytes.
func (t *Tracker) Add(n int64) {
	t.done.Add(n)
}

// Done returns the byte count recorded so far.
func (t *Tracker) Done() int64 {
	return t.done.Load()
}

// Stop ends the reporting task. Safe to call more than once.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

// Sample computes the current progress figures.
func (t *Tracker) Sample() Sample {
	done := t.done.Load()
	elapsed := time.Since(t.start)

	s := Sample{
		Done:    done,
		Total:   t.total,
		Elapsed: elapsed,
		Percent: 100,
		ETA:     -1,
	}

	if t.total > 0 {
		p := int(100 * done / t.total)
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		s.Percent = p
	}

	if secs := elapsed.Seconds(); secs > 0 {
		s.Throughput = float64(done) / secs
	}
	if s.Throughput > 0 {
		remaining := t.total - done
		if remaining < 0 {
			remaining = 0
		}
		s.ETA = time.Duration(float64(remaining) / s.Throughput * float64(time.Second))
	}
	return s
}

func (t *Tracker) loop() {
	select {
	case <-t.stopCh:
		return
	case <-time.After(t.delay):
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		t.report(t.Sample().String())
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
		}
	}
}

// String renders one status line, e.g.
//
//	42% transferred (2.1 MiB/5.0 MiB), elapsed: 14s, speed: 153.6 KiB/s, ETA: 20s
func (s Sample) String() string {
	eta := "∞"
	if s.ETA >= 0 {
		eta = util.HumanDuration(s.ETA)
	}
	return fmt.Sprintf("%d%% transferred (%s/%s), elapsed: %s, speed: %s/s, ETA: %s",
		s.Percent,
		util.HumanBytes(s.Done), util.HumanBytes(s.Total),
		util.HumanDuration(s.Elapsed),
		util.HumanBytes(int64(s.Throughput)),
		eta,
	)
}
