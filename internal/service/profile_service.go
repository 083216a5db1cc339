package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/llm"
	"github.com/blaisecz/athlete-readiness/internal/localstore"
	"github.com/blaisecz/athlete-readiness/internal/metrics"
	"github.com/google/uuid"
)

// ProfileService registers new athletes.
type ProfileService interface {
	// Create validates the form, assigns an athlete id, enriches the profile
	// when the inference service is available, caches it locally and queues
	// the remote upsert.
	Create(ctx context.Context, req *domain.CreateProfileRequest) (*domain.Profile, error)
}

type profileService struct {
	analyzer llm.Analyzer
	store    localstore.ProfileStore
	sync     SyncService
	metrics  *metrics.Manager
	logger   *slog.Logger
	now      func() time.Time
}

func NewProfileService(analyzer llm.Analyzer, store localstore.ProfileStore, sync SyncService, m *metrics.Manager) ProfileService {
	return &profileService{
		analyzer: analyzer,
		store:    store,
		sync:     sync,
		metrics:  m,
		logger:   slog.Default().With("component", "profiles"),
		now:      time.Now,
	}
}

func (s *profileService) Create(ctx context.Context, req *domain.CreateProfileRequest) (*domain.Profile, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty profile form", domain.ErrInvalidInput)
	}

	form := *req
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	profile := &domain.Profile{
		AthleteID:    uuid.NewString(),
		GivenName:    form.GivenName,
		FamilyName:   form.FamilyName,
		PrimarySport: form.PrimarySport,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile.ProfileSummary = s.enrich(ctx, &form)

	if err := s.store.Save(profile); err != nil {
		return nil, fmt.Errorf("save profile locally: %w", err)
	}
	s.sync.UpsertProfile(ctx, profile)

	s.logger.Info("profile created", "athlete_id", profile.AthleteID, "enriched", profile.ProfileSummary != "")
	return profile, nil
}

// enrich returns a model-written summary or "" when enrichment is unavailable.
func (s *profileService) enrich(ctx context.Context, form *domain.CreateProfileRequest) string {
	if s.analyzer == nil {
		s.metrics.RecordEnrichmentFailure(string(llm.KindConfiguration))
		return ""
	}

	summary, err := s.analyzer.SummarizeProfile(ctx, form)
	if err != nil {
		kind, ok := llm.KindOf(err)
		if !ok {
			kind = "Unknown"
		}
		s.logger.Warn("profile enrichment failed, using raw fields", "kind", kind, "error", err)
		s.metrics.RecordEnrichmentFailure(string(kind))
		return ""
	}
	return strings.TrimSpace(summary)
}
