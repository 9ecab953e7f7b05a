package telemetry

import (
	"sync"
	"time"
)

const durationWindowSize = 100

// Stats is a point-in-time snapshot of audit activity since startup.
type Stats struct {
	TotalAudits   int64            `json:"total_audits"`
	Completed     int64            `json:"completed"`
	Fatal         int64            `json:"fatal"`
	FatalByReason map[string]int64 `json:"fatal_by_reason,omitempty"`
	LastFatal     string           `json:"last_fatal,omitempty"`
	LastFatalTime *time.Time       `json:"last_fatal_time,omitempty"`
	LastAuditTime *time.Time       `json:"last_audit_time,omitempty"`
	AvgDurationMs float64          `json:"avg_duration_ms"`
	P95DurationMs float64          `json:"p95_duration_ms"`
}

// Registry accumulates audit counters and a rolling duration window.
type Registry struct {
	mu            sync.RWMutex
	totalAudits   int64
	completed     int64
	fatal         int64
	fatalByReason map[string]int64
	lastFatal     string
	lastFatalTime time.Time
	lastAuditTime time.Time
	durations     []float64
	durationIdx   int
	durationFull  bool
}

func NewRegistry() *Registry {
	return &Registry{
		fatalByReason: make(map[string]int64),
		durations:     make([]float64, durationWindowSize),
	}
}

func (r *Registry) RecordCompleted(duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalAudits++
	r.completed++
	r.lastAuditTime = time.Now()
	r.recordDuration(duration)
}

func (r *Registry) RecordFatal(reason string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.totalAudits++
	r.fatal++
	r.fatalByReason[reason]++
	r.lastFatal = reason
	r.lastFatalTime = now
	r.lastAuditTime = now
	r.recordDuration(duration)
}

func (r *Registry) recordDuration(duration time.Duration) {
	ms := float64(duration.Microseconds()) / 1000.0
	r.durations[r.durationIdx] = ms
	r.durationIdx++
	if r.durationIdx >= durationWindowSize {
		r.durationIdx = 0
		r.durationFull = true
	}
}

func (r *Registry) Snapshot() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		TotalAudits: r.totalAudits,
		Completed:   r.completed,
		Fatal:       r.fatal,
		LastFatal:   r.lastFatal,
	}

	if len(r.fatalByReason) > 0 {
		s.FatalByReason = make(map[string]int64, len(r.fatalByReason))
		for reason, n := range r.fatalByReason {
			s.FatalByReason[reason] = n
		}
	}
	if !r.lastFatalTime.IsZero() {
		t := r.lastFatalTime
		s.LastFatalTime = &t
	}
	if !r.lastAuditTime.IsZero() {
		t := r.lastAuditTime
		s.LastAuditTime = &t
	}

	count := r.durationIdx
	if r.durationFull {
		count = durationWindowSize
	}
	if count > 0 {
		sorted := make([]float64, count)
		copy(sorted, r.durations[:count])
		sortFloats(sorted)
		s.AvgDurationMs = avgFloats(sorted)
		s.P95DurationMs = sorted[int(float64(len(sorted)-1)*0.95)]
	}

	return s
}

func sortFloats(data []float64) {
	for i := 1; i < len(data); i++ {
		for j := i; j > 0 && data[j-1] > data[j]; j-- {
			data[j-1], data[j] = data[j], data[j-1]
		}
	}
}

func avgFloats(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}
