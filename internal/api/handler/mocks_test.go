package handler

import (
	"context"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/langfuse"
	"github.com/blaisecz/athlete-readiness/internal/session"
)

// MockSession is a mock implementation of session.Session
type MockSession struct {
	snapshot          session.Snapshot
	submitProfileFunc func(ctx context.Context, req *domain.CreateProfileRequest) (session.Snapshot, error)
	adjustMetricFunc  func(channel domain.Channel, value int) (session.Snapshot, error)
	setMetricsFunc    func(vector domain.MetricVector) (session.Snapshot, error)
	submitCheckInFunc func(ctx context.Context) (session.Snapshot, error)
	backFunc          func() (session.Snapshot, error)
	resetFunc         func() (session.Snapshot, error)
}

func (m *MockSession) Snapshot() session.Snapshot {
	return m.snapshot
}

func (m *MockSession) SubmitProfile(ctx context.Context, req *domain.CreateProfileRequest) (session.Snapshot, error) {
	if m.submitProfileFunc != nil {
		return m.submitProfileFunc(ctx, req)
	}
	return session.Snapshot{
		State: session.StateCheckIn,
		Profile: &domain.Profile{
			AthleteID:    "ath-123",
			GivenName:    req.GivenName,
			FamilyName:   req.FamilyName,
			PrimarySport: req.PrimarySport,
		},
	}, nil
}

func (m *MockSession) AdjustMetric(channel domain.Channel, value int) (session.Snapshot, error) {
	if m.adjustMetricFunc != nil {
		return m.adjustMetricFunc(channel, value)
	}
	v, err := domain.DefaultMetricVector().With(channel, value)
	if err != nil {
		return m.snapshot, err
	}
	return session.Snapshot{State: session.StateCheckIn, Metrics: &v}, nil
}

func (m *MockSession) SetMetrics(vector domain.MetricVector) (session.Snapshot, error) {
	if m.setMetricsFunc != nil {
		return m.setMetricsFunc(vector)
	}
	if err := vector.Validate(); err != nil {
		return m.snapshot, err
	}
	return session.Snapshot{State: session.StateCheckIn, Metrics: &vector}, nil
}

func (m *MockSession) SubmitCheckIn(ctx context.Context) (session.Snapshot, error) {
	if m.submitCheckInFunc != nil {
		return m.submitCheckInFunc(ctx)
	}
	return session.Snapshot{State: session.StateResults, Report: &domain.Report{Classification: domain.TierGreen, GlobalScore: 0.82}}, nil
}

func (m *MockSession) Back() (session.Snapshot, error) {
	if m.backFunc != nil {
		return m.backFunc()
	}
	return session.Snapshot{State: session.StateCheckIn}, nil
}

func (m *MockSession) Reset() (session.Snapshot, error) {
	if m.resetFunc != nil {
		return m.resetFunc()
	}
	return session.Snapshot{State: session.StateOnboarding}, nil
}

// MockLangfuseClient records scores
type MockLangfuseClient struct {
	scores []langfuse.ScoreInput
}

func (m *MockLangfuseClient) IsEnabled() bool { return true }

func (m *MockLangfuseClient) CreateTrace(ctx context.Context, in langfuse.TraceInput) (string, error) {
	return "trace-1", nil
}

func (m *MockLangfuseClient) CreateScore(ctx context.Context, in langfuse.ScoreInput) error {
	m.scores = append(m.scores, in)
	return nil
}

func (m *MockLangfuseClient) Wait() {}
