package perf

import (
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/andyrewlee/assistive/internal/logging"
)

const (
	sampleWindow    = 256
	defaultInterval = 5 * time.Second
)

// Stat summarizes the samples recorded under one name since the last
// snapshot.
type Stat struct {
	Name  string
	Count int64
	Avg   time.Duration
	Max   time.Duration
	P95   time.Duration
}

type series struct {
	count   int64
	total   time.Duration
	max     time.Duration
	samples []time.Duration
}

// Recorder collects frame and input timings. A nil or disabled recorder
// ignores everything, so callers never branch on it.
type Recorder struct {
	mu       sync.Mutex
	series   map[string]*series
	counters map[string]int64
	interval time.Duration
	lastLog  time.Time
	now      func() time.Time
}

// New returns an enabled recorder that logs a summary every interval.
// A zero interval disables periodic logging.
func New(interval time.Duration) *Recorder {
	return &Recorder{
		series:   make(map[string]*series),
		counters: make(map[string]int64),
		interval: interval,
		now:      time.Now,
	}
}

// FromEnv enables profiling when ASSISTIVE_PROFILE is set to a truthy value.
// ASSISTIVE_PROFILE_INTERVAL_MS overrides the log interval.
func FromEnv() *Recorder {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("ASSISTIVE_PROFILE")))
	switch raw {
	case "", "0", "false", "no":
		return nil
	}
	interval := defaultInterval
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv("ASSISTIVE_PROFILE_INTERVAL_MS"))); err == nil && ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}
	return New(interval)
}

// Time returns a function that records the elapsed time under name.
func (r *Recorder) Time(name string) func() {
	if r == nil {
		return func() {}
	}
	start := r.now()
	return func() { r.Record(name, r.now().Sub(start)) }
}

// Record adds one duration sample.
func (r *Recorder) Record(name string, d time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	s, ok := r.series[name]
	if !ok {
		s = &series{}
		r.series[name] = s
	}
	s.count++
	s.total += d
	s.max = max(s.max, d)
	if len(s.samples) == sampleWindow {
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:sampleWindow-1]
	}
	s.samples = append(s.samples, d)
	r.mu.Unlock()
	r.maybeLog()
}

// Count adds delta to a named counter.
func (r *Recorder) Count(name string, delta int64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.counters[name] += delta
	r.mu.Unlock()
	r.maybeLog()
}

// Snapshot returns the current stats and counters sorted by name, and
// resets them.
func (r *Recorder) Snapshot() ([]Stat, map[string]int64) {
	if r == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := make([]Stat, 0, len(r.series))
	for name, s := range r.series {
		stats = append(stats, Stat{
			Name:  name,
			Count: s.count,
			Avg:   s.total / time.Duration(s.count),
			Max:   s.max,
			P95:   p95(s.samples),
		})
	}
	slices.SortFunc(stats, func(a, b Stat) int { return strings.Compare(a.Name, b.Name) })

	counters := r.counters
	r.series = make(map[string]*series)
	r.counters = make(map[string]int64)
	return stats, counters
}

// Flush logs the current summary immediately.
func (r *Recorder) Flush(reason string) {
	if r == nil {
		return
	}
	stats, counters := r.Snapshot()
	for _, s := range stats {
		logging.Info("PERF %s %s count=%d avg=%s p95=%s max=%s", reason, s.Name, s.Count, s.Avg, s.P95, s.Max)
	}
	for name, v := range counters {
		logging.Info("PERF %s %s count=%d", reason, name, v)
	}
}

func (r *Recorder) maybeLog() {
	if r.interval <= 0 {
		return
	}
	r.mu.Lock()
	now := r.now()
	due := r.lastLog.IsZero() || now.Sub(r.lastLog) >= r.interval
	if due {
		r.lastLog = now
	}
	r.mu.Unlock()
	if due {
		r.Flush("periodic")
	}
}

func p95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	idx := int(math.Ceil(0.95*float64(len(sorted)))) - 1
	return sorted[max(idx, 0)]
}
