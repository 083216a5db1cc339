package service

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/metrics"
	"github.com/blaisecz/athlete-readiness/internal/repository"
)

// DefaultRemoteWriteTimeout bounds each background write to the remote store.
const DefaultRemoteWriteTimeout = 5 * time.Second

const (
	tableProfiles     = "profiles"
	tableDailyReports = "daily_reports"
)

var errPanic = errors.New("panic during remote write")

// SyncService mirrors local state to the remote store in the background.
// Writes are attempted once; failures are logged and counted, never returned.
type SyncService interface {
	UpsertProfile(ctx context.Context, profile *domain.Profile)
	InsertReport(ctx context.Context, athleteID string, report *domain.Report)
	// Wait blocks until every pending write has finished.
	Wait()
}

type syncService struct {
	profiles repository.ProfileRepository
	reports  repository.ReportRepository
	timeout  time.Duration
	metrics  *metrics.Manager
	logger   *slog.Logger
	pending  sync.WaitGroup
}

// NewSyncService creates a SyncService. Nil repositories disable remote writes.
func NewSyncService(profiles repository.ProfileRepository, reports repository.ReportRepository, timeout time.Duration, m *metrics.Manager) SyncService {
	if timeout <= 0 {
		timeout = DefaultRemoteWriteTimeout
	}
	return &syncService{
		profiles: profiles,
		reports:  reports,
		timeout:  timeout,
		metrics:  m,
		logger:   slog.Default().With("component", "sync"),
	}
}

func (s *syncService) UpsertProfile(ctx context.Context, profile *domain.Profile) {
	if s.profiles == nil {
		s.logger.Debug("remote store disabled, skipping profile upsert")
		return
	}
	if profile == nil {
		return
	}

	row := *profile
	s.spawn(ctx, tableProfiles, row.AthleteID, func(ctx context.Context) error {
		return s.profiles.Upsert(ctx, &row)
	})
}

func (s *syncService) InsertReport(ctx context.Context, athleteID string, report *domain.Report) {
	if s.reports == nil {
		s.logger.Debug("remote store disabled, skipping report insert")
		return
	}
	if report == nil {
		return
	}

	row, err := domain.NewDailyReport(athleteID, report)
	if err != nil {
		s.logger.Error("build daily report", "athlete_id", athleteID, "error", err)
		s.metrics.RecordRemoteWrite(tableDailyReports, err)
		return
	}
	s.spawn(ctx, tableDailyReports, athleteID, func(ctx context.Context) error {
		return s.reports.Insert(ctx, row)
	})
}

func (s *syncService) Wait() {
	s.pending.Wait()
}

// spawn runs write in a panic-guarded goroutine. The caller's context only
// contributes values; cancellation is replaced by the write timeout.
func (s *syncService) spawn(ctx context.Context, table, athleteID string, write func(context.Context) error) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("remote write panic", "table", table, "panic", r, "stack", string(debug.Stack()))
				s.metrics.RecordRemoteWrite(table, errPanic)
			}
		}()

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		start := time.Now()
		err := write(writeCtx)
		s.metrics.RecordRemoteWrite(table, err)
		if err != nil {
			s.logger.Warn("remote write failed", "table", table, "athlete_id", athleteID, "error", err)
			return
		}
		s.logger.Debug("remote write done", "table", table, "athlete_id", athleteID, "duration", time.Since(start))
	}()
}
