package service

import (
	"context"
	"sync"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/langfuse"
	"github.com/blaisecz/athlete-readiness/internal/localstore"
)

// MockAnalyzer is a mock implementation of llm.Analyzer
type MockAnalyzer struct {
	output     *domain.AnalysisOutput
	summary    string
	err        error
	summaryErr error

	analyzeCalls   int
	summarizeCalls int
	lastProfile    *domain.Profile
	lastMetrics    domain.MetricVector
}

func (m *MockAnalyzer) AnalyzeReadiness(ctx context.Context, profile *domain.Profile, metrics domain.MetricVector) (*domain.AnalysisOutput, error) {
	m.analyzeCalls++
	m.lastProfile = profile
	m.lastMetrics = metrics
	if m.err != nil {
		return nil, m.err
	}
	out := *m.output
	return &out, nil
}

func (m *MockAnalyzer) SummarizeProfile(ctx context.Context, req *domain.CreateProfileRequest) (string, error) {
	m.summarizeCalls++
	if m.summaryErr != nil {
		return "", m.summaryErr
	}
	return m.summary, nil
}

// MockProfileStore is an in-memory localstore.ProfileStore
type MockProfileStore struct {
	profile *domain.Profile
	saveErr error
	saves   int
}

func (m *MockProfileStore) Save(p *domain.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	cp := *p
	m.profile = &cp
	return nil
}

func (m *MockProfileStore) Load() (*domain.Profile, error) {
	if m.profile == nil {
		return nil, localstore.ErrNotFound
	}
	cp := *m.profile
	return &cp, nil
}

func (m *MockProfileStore) Clear() error {
	m.profile = nil
	return nil
}

// MockProfileRepository records upserts keyed by athlete id
type MockProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	calls    int
	err      error
	panicMsg string
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{profiles: make(map[string]domain.Profile)}
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return m.err
	}
	m.profiles[profile.AthleteID] = *profile
	return nil
}

// MockReportRepository records inserted rows
type MockReportRepository struct {
	mu      sync.Mutex
	reports []domain.DailyReport
	err     error
	block   chan struct{}
}

func (m *MockReportRepository) Insert(ctx context.Context, report *domain.DailyReport) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, *report)
	return nil
}

// MockSyncService records queued writes without running them
type MockSyncService struct {
	mu       sync.Mutex
	profiles []domain.Profile
	reports  []string
}

func (m *MockSyncService) UpsertProfile(ctx context.Context, profile *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, *profile)
}

func (m *MockSyncService) InsertReport(ctx context.Context, athleteID string, report *domain.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, athleteID)
}

func (m *MockSyncService) Wait() {}

// MockLangfuseClient captures traces and scores
type MockLangfuseClient struct {
	enabled bool
	traces  []langfuse.TraceInput
	scores  []langfuse.ScoreInput
}

func (m *MockLangfuseClient) IsEnabled() bool { return m.enabled }

func (m *MockLangfuseClient) CreateTrace(ctx context.Context, in langfuse.TraceInput) (string, error) {
	if !m.enabled {
		return "", nil
	}
	m.traces = append(m.traces, in)
	return "trace-1", nil
}

func (m *MockLangfuseClient) CreateScore(ctx context.Context, in langfuse.ScoreInput) error {
	m.scores = append(m.scores, in)
	return nil
}

func (m *MockLangfuseClient) Wait() {}

func validProfile() *domain.Profile {
	return &domain.Profile{
		AthleteID:    "ath-123",
		GivenName:    "Lucia",
		FamilyName:   "Martinez",
		PrimarySport: "Triathlon",
	}
}

func analysisOutput(score float64, classification string) *domain.AnalysisOutput {
	return &domain.AnalysisOutput{
		GlobalScore:    score,
		Classification: classification,
		Insight:        "Solid base today.",
		Strengths:      []domain.LabeledValue{{Key: "motivation", Value: 9}},
		Alerts:         []domain.LabeledValue{},
		Protocol: domain.Protocol{
			Name:            "Box breathing",
			DurationMinutes: 5,
			Steps:           []string{"Inhale 4s", "Hold 4s", "Exhale 4s"},
			Script:          "Calm body, clear mind.",
			ShortVariant:    "Three slow breaths.",
			MinimalPlan:     "Rest and hydrate.",
		},
	}
}
