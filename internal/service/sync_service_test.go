package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/metrics"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		GlobalScore:    0.82,
		Classification: domain.TierGreen,
		Insight:        "Ready to train.",
		Metrics:        domain.DefaultMetricVector(),
		GeneratedAt:    time.Now().UTC(),
	}
}

func TestSyncService_UpsertProfileIsLastWriteWins(t *testing.T) {
	profiles := NewMockProfileRepository()
	svc := NewSyncService(profiles, &MockReportRepository{}, time.Second, nil)

	p := validProfile()
	p.ProfileSummary = "first"
	svc.UpsertProfile(context.Background(), p)
	svc.Wait()

	p.ProfileSummary = "second"
	svc.UpsertProfile(context.Background(), p)
	svc.Wait()

	if len(profiles.profiles) != 1 {
		t.Fatalf("stored %d profiles, want 1", len(profiles.profiles))
	}
	if got := profiles.profiles["ath-123"].ProfileSummary; got != "second" {
		t.Errorf("ProfileSummary = %q, want %q", got, "second")
	}
	if profiles.calls != 2 {
		t.Errorf("upsert calls = %d, want 2", profiles.calls)
	}
}

func TestSyncService_UpsertCopiesProfile(t *testing.T) {
	profiles := NewMockProfileRepository()
	svc := NewSyncService(profiles, nil, time.Second, nil)

	p := validProfile()
	p.ProfileSummary = "queued"
	svc.UpsertProfile(context.Background(), p)
	p.ProfileSummary = "mutated after queueing"
	svc.Wait()

	if got := profiles.profiles["ath-123"].ProfileSummary; got != "queued" {
		t.Errorf("ProfileSummary = %q, want %q", got, "queued")
	}
}

func TestSyncService_InsertReportAppends(t *testing.T) {
	reports := &MockReportRepository{}
	svc := NewSyncService(nil, reports, time.Second, nil)

	svc.InsertReport(context.Background(), "ath-123", sampleReport())
	svc.InsertReport(context.Background(), "ath-123", sampleReport())
	svc.Wait()

	if len(reports.reports) != 2 {
		t.Fatalf("stored %d reports, want 2", len(reports.reports))
	}
	first := reports.reports[0]
	if first.ID == reports.reports[1].ID {
		t.Errorf("reports share id %s", first.ID)
	}
	if first.AthleteID != "ath-123" {
		t.Errorf("AthleteID = %q, want %q", first.AthleteID, "ath-123")
	}
	if first.Classification != domain.TierGreen {
		t.Errorf("Classification = %q, want %q", first.Classification, domain.TierGreen)
	}
	var stored domain.MetricVector
	if err := json.Unmarshal(first.Metrics, &stored); err != nil {
		t.Fatalf("metrics column is not JSON: %v", err)
	}
	if stored != domain.DefaultMetricVector() {
		t.Errorf("metrics = %+v, want defaults", stored)
	}
}

func TestSyncService_FailuresAreCountedNotReturned(t *testing.T) {
	m := metrics.NewManager()
	profiles := NewMockProfileRepository()
	profiles.err = errors.New("connection refused")
	reports := &MockReportRepository{err: errors.New("connection refused")}
	svc := NewSyncService(profiles, reports, time.Second, m)

	svc.UpsertProfile(context.Background(), validProfile())
	svc.InsertReport(context.Background(), "ath-123", sampleReport())
	svc.Wait()

	for _, table := range []string{"profiles", "daily_reports"} {
		if got := remoteFailures(t, m, table); got != 1 {
			t.Errorf("%s failures = %v, want 1", table, got)
		}
	}
}

func TestSyncService_PanicIsRecovered(t *testing.T) {
	m := metrics.NewManager()
	profiles := NewMockProfileRepository()
	profiles.panicMsg = "driver exploded"
	svc := NewSyncService(profiles, nil, time.Second, m)

	svc.UpsertProfile(context.Background(), validProfile())
	svc.Wait()

	if got := remoteFailures(t, m, "profiles"); got != 1 {
		t.Errorf("profiles failures = %v, want 1", got)
	}
}

func TestSyncService_TimeoutBoundsWrite(t *testing.T) {
	reports := &MockReportRepository{block: make(chan struct{})}
	defer close(reports.block)
	svc := NewSyncService(nil, reports, 20*time.Millisecond, nil)

	done := make(chan struct{})
	go func() {
		svc.InsertReport(context.Background(), "ath-123", sampleReport())
		svc.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("write was not bounded by the timeout")
	}
	if len(reports.reports) != 0 {
		t.Errorf("stored %d reports after timeout, want 0", len(reports.reports))
	}
}

func TestSyncService_CallerCancellationDoesNotAbortWrite(t *testing.T) {
	reports := &MockReportRepository{}
	svc := NewSyncService(nil, reports, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.InsertReport(ctx, "ath-123", sampleReport())
	svc.Wait()

	if len(reports.reports) != 1 {
		t.Errorf("stored %d reports, want 1", len(reports.reports))
	}
}

func TestSyncService_DisabledIsNoop(t *testing.T) {
	svc := NewSyncService(nil, nil, 0, nil)

	svc.UpsertProfile(context.Background(), validProfile())
	svc.InsertReport(context.Background(), "ath-123", sampleReport())
	svc.Wait()
}

func remoteFailures(t *testing.T, m *metrics.Manager, table string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "readiness_remote_write_failures_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "table" && label.GetValue() == table {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
