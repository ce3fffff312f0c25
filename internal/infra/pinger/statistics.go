package pinger

import (
	"math"
	"slices"
	"sync"
	"time"
)

const (
	successWindow = 100
	failureWindow = 10
)

// Latency summarizes the latencies kept in a window.
type Latency struct {
	Count   int           `json:"count"`
	Median  time.Duration `json:"median"`
	Average time.Duration `json:"average"`
	P90     time.Duration `json:"p90"`
	P99     time.Duration `json:"p99"`
}

// Statistics is a point-in-time view of one pinger.
type Statistics struct {
	Ready       bool      `json:"ready"`
	Healthy     bool      `json:"healthy"`
	LastRun     time.Time `json:"lastRun"`
	LastError   string    `json:"lastError,omitempty"`
	LastErrorAt time.Time `json:"lastErrorAt,omitzero"`
	Success     Latency   `json:"success"`
	Failure     Latency   `json:"failure"`
}

// ring keeps the last len(buf) durations.
type ring struct {
	buf  []time.Duration
	next int
	full bool
}

func newRing(size int) *ring {
	return &ring{buf: make([]time.Duration, size)}
}

func (r *ring) add(d time.Duration) {
	r.buf[r.next] = d
	r.next = (r.next + 1) % len(r.buf)

	if r.next == 0 {
		r.full = true
	}
}

// values returns the kept durations, oldest first.
func (r *ring) values() []time.Duration {
	if !r.full {
		return slices.Clone(r.buf[:r.next])
	}

	return slices.Concat(r.buf[r.next:], r.buf[:r.next])
}

type record struct {
	mu          sync.Mutex
	lastRun     time.Time
	lastErr     error
	lastErrorAt time.Time
	success     *ring
	failure     *ring
}

func newRecord() *record {
	return &record{
		success: newRing(successWindow),
		failure: newRing(failureWindow),
	}
}

func (r *record) add(at time.Time, latency time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRun = at
	r.lastErr = err

	if err != nil {
		r.lastErrorAt = at
		r.failure.add(latency)

		return
	}

	r.success.add(latency)
}

func (r *record) statistics() *Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := &Statistics{
		LastRun:     r.lastRun,
		LastErrorAt: r.lastErrorAt,
		Success:     summarize(r.success.values()),
		Failure:     summarize(r.failure.values()),
	}

	if r.lastErr != nil {
		st.LastError = r.lastErr.Error()
	}

	return st
}

func summarize(ds []time.Duration) Latency {
	if len(ds) == 0 {
		return Latency{}
	}

	slices.Sort(ds)

	var sum time.Duration
	for _, d := range ds {
		sum += d
	}

	median := ds[len(ds)/2]
	if len(ds)%2 == 0 {
		median = (ds[len(ds)/2-1] + median) / 2
	}

	return Latency{
		Count:   len(ds),
		Median:  median,
		Average: sum / time.Duration(len(ds)),
		P90:     percentile(ds, 90),
		P99:     percentile(ds, 99),
	}
}

// percentile uses the nearest-rank method on sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	rank := int(math.Ceil(p / 100 * float64(len(sorted))))

	return sorted[max(0, min(rank, len(sorted))-1)]
}
