package telemetry_test

import (
	"sync"
	"testing"
	"time"

	"github.com/AEO-Content-Inc/aeorank/internal/telemetry"
)

func TestRegistryCounters(t *testing.T) {
	reg := telemetry.NewRegistry()

	reg.RecordCompleted(100 * time.Millisecond)
	reg.RecordCompleted(200 * time.Millisecond)
	reg.RecordFatal("parked_domain", 50*time.Millisecond)

	stats := reg.Snapshot()
	if stats.TotalAudits != 3 {
		t.Errorf("expected 3 total, got %d", stats.TotalAudits)
	}
	if stats.Completed != 2 {
		t.Errorf("expected 2 completed, got %d", stats.Completed)
	}
	if stats.Fatal != 1 {
		t.Errorf("expected 1 fatal, got %d", stats.Fatal)
	}
	if stats.FatalByReason["parked_domain"] != 1 {
		t.Errorf("expected parked_domain count 1, got %d", stats.FatalByReason["parked_domain"])
	}
	if stats.LastFatal != "parked_domain" {
		t.Errorf("expected last fatal parked_domain, got %q", stats.LastFatal)
	}
	if stats.LastFatalTime == nil || stats.LastAuditTime == nil {
		t.Error("timestamps should be recorded")
	}
}

func TestRegistryDurationStats(t *testing.T) {
	reg := telemetry.NewRegistry()
	for i := 1; i <= 20; i++ {
		reg.RecordCompleted(time.Duration(i*10) * time.Millisecond)
	}

	stats := reg.Snapshot()
	if stats.AvgDurationMs != 105 {
		t.Errorf("expected avg 105ms, got %v", stats.AvgDurationMs)
	}
	if stats.P95DurationMs != 190 {
		t.Errorf("expected p95 190ms, got %v", stats.P95DurationMs)
	}
}

func TestRegistryEmptySnapshot(t *testing.T) {
	stats := telemetry.NewRegistry().Snapshot()
	if stats.TotalAudits != 0 || stats.AvgDurationMs != 0 {
		t.Error("fresh registry should be all zeros")
	}
	if stats.FatalByReason != nil {
		t.Error("empty reason map should be omitted")
	}
	if stats.LastAuditTime != nil {
		t.Error("no audit time before any audit")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := telemetry.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.RecordCompleted(10 * time.Millisecond)
			reg.RecordFatal("unreachable", 5*time.Millisecond)
			_ = reg.Snapshot()
		}()
	}
	wg.Wait()

	stats := reg.Snapshot()
	if stats.TotalAudits != 100 {
		t.Errorf("expected 100 audits, got %d", stats.TotalAudits)
	}
	if stats.FatalByReason["unreachable"] != 50 {
		t.Errorf("expected 50 unreachable, got %d", stats.FatalByReason["unreachable"])
	}
}
