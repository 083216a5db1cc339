// Package session drives the single athlete session: onboarding, daily
// check-in and results. All transitions go through an Orchestrator, which
// owns the state and serializes access to it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/localstore"
	"github.com/blaisecz/athlete-readiness/internal/service"
)

// State is the phase the session is in.
type State string

const (
	StateOnboarding State = "ONBOARDING"
	StateCheckIn    State = "CHECK_IN"
	StateResults    State = "RESULTS"
)

var (
	// ErrInvalidTransition means the action is not allowed in the current state.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrBusy means a request is already in flight.
	ErrBusy = errors.New("analysis already in progress")
	// ErrSuperseded means the session was reset while the request was in flight
	// and its result was discarded.
	ErrSuperseded = errors.New("session was reset during the request")
)

// Snapshot is a read-only view of the session.
// @Description Current session state. Fields are present only when the state carries them.
type Snapshot struct {
	State   State                `json:"state" example:"CHECK_IN"`
	Loading bool                 `json:"loading"`
	Profile *domain.Profile      `json:"profile,omitempty"`
	Metrics *domain.MetricVector `json:"metrics,omitempty"`
	Report  *domain.Report       `json:"report,omitempty"`
}

// Session is the set of operations the HTTP layer drives.
type Session interface {
	Snapshot() Snapshot
	SubmitProfile(ctx context.Context, req *domain.CreateProfileRequest) (Snapshot, error)
	AdjustMetric(channel domain.Channel, value int) (Snapshot, error)
	SetMetrics(vector domain.MetricVector) (Snapshot, error)
	SubmitCheckIn(ctx context.Context) (Snapshot, error)
	Back() (Snapshot, error)
	Reset() (Snapshot, error)
}

// Orchestrator is the Session implementation. The mutex guards every field
// below it; network calls run without holding it, with loading as the guard.
type Orchestrator struct {
	profiles service.ProfileService
	analysis service.AnalysisService
	store    localstore.ProfileStore
	sync     service.SyncService
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	loading    bool
	generation uint64
	profile    *domain.Profile
	metrics    domain.MetricVector
	report     *domain.Report
}

var _ Session = (*Orchestrator)(nil)

// New creates an Orchestrator in ONBOARDING. Call Start to resume a cached profile.
func New(profiles service.ProfileService, analysis service.AnalysisService, store localstore.ProfileStore, syncer service.SyncService) *Orchestrator {
	return &Orchestrator{
		profiles: profiles,
		analysis: analysis,
		store:    store,
		sync:     syncer,
		logger:   slog.Default().With("component", "session"),
		state:    StateOnboarding,
		metrics:  domain.DefaultMetricVector(),
	}
}

// Start resumes from the local cache. A valid profile moves the session to
// CHECK_IN with default metrics; anything else starts ONBOARDING, and a corrupt
// cache is cleared.
func (o *Orchestrator) Start(ctx context.Context) {
	profile, err := o.store.Load()

	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateOnboarding
	switch {
	case err == nil:
		o.profile = profile
		o.metrics = domain.DefaultMetricVector()
		o.state = StateCheckIn
		o.logger.InfoContext(ctx, "resumed cached profile", "athlete_id", profile.AthleteID)
	case errors.Is(err, localstore.ErrNotFound):
		o.logger.InfoContext(ctx, "no cached profile, starting onboarding")
	case errors.Is(err, localstore.ErrCorrupt):
		o.logger.WarnContext(ctx, "discarding corrupt cached profile", "error", err)
		if clearErr := o.store.Clear(); clearErr != nil {
			o.logger.ErrorContext(ctx, "clear corrupt profile cache", "error", clearErr)
		}
	default:
		o.logger.WarnContext(ctx, "cached profile unreadable, starting onboarding", "error", err)
	}
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	snap := Snapshot{State: o.state, Loading: o.loading}
	if o.state == StateOnboarding {
		return snap
	}
	if o.profile != nil {
		p := *o.profile
		snap.Profile = &p
	}
	m := o.metrics
	snap.Metrics = &m
	if o.state == StateResults {
		snap.Report = o.report
	}
	return snap
}

// SubmitProfile registers the athlete and moves to CHECK_IN. On failure the
// session stays in ONBOARDING.
func (o *Orchestrator) SubmitProfile(ctx context.Context, req *domain.CreateProfileRequest) (Snapshot, error) {
	o.mu.Lock()
	if err := o.requireLocked(StateOnboarding, "submit profile"); err != nil {
		defer o.mu.Unlock()
		return o.snapshotLocked(), err
	}
	o.loading = true
	gen := o.generation
	o.mu.Unlock()

	profile, err := o.profiles.Create(ctx, req)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation {
		if profile != nil {
			o.discardCachedLocked(profile.AthleteID)
		}
		return o.snapshotLocked(), ErrSuperseded
	}
	o.loading = false
	if err != nil {
		return o.snapshotLocked(), err
	}

	o.profile = profile
	o.metrics = domain.DefaultMetricVector()
	o.report = nil
	o.state = StateCheckIn
	return o.snapshotLocked(), nil
}

// AdjustMetric sets one channel. The value is range checked.
func (o *Orchestrator) AdjustMetric(channel domain.Channel, value int) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.requireLocked(StateCheckIn, "adjust metric"); err != nil {
		return o.snapshotLocked(), err
	}
	updated, err := o.metrics.With(channel, value)
	if err != nil {
		return o.snapshotLocked(), err
	}
	o.metrics = updated
	return o.snapshotLocked(), nil
}

// SetMetrics replaces the whole vector after validating it.
func (o *Orchestrator) SetMetrics(vector domain.MetricVector) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.requireLocked(StateCheckIn, "set metrics"); err != nil {
		return o.snapshotLocked(), err
	}
	if err := vector.Validate(); err != nil {
		return o.snapshotLocked(), err
	}
	o.metrics = vector
	return o.snapshotLocked(), nil
}

// SubmitCheckIn analyzes a frozen copy of the current metrics. Success moves
// to RESULTS and queues the remote insert; failure leaves CHECK_IN untouched.
func (o *Orchestrator) SubmitCheckIn(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	if err := o.requireLocked(StateCheckIn, "submit check-in"); err != nil {
		defer o.mu.Unlock()
		return o.snapshotLocked(), err
	}
	frozen := o.metrics
	if err := frozen.Validate(); err != nil {
		defer o.mu.Unlock()
		return o.snapshotLocked(), err
	}
	profile := *o.profile
	o.loading = true
	gen := o.generation
	o.mu.Unlock()

	report, err := o.analysis.Analyze(ctx, &profile, frozen)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation {
		o.logger.Info("discarding analysis result after reset", "athlete_id", profile.AthleteID)
		return o.snapshotLocked(), ErrSuperseded
	}
	o.loading = false
	if err != nil {
		return o.snapshotLocked(), err
	}

	o.report = report
	o.state = StateResults
	o.sync.InsertReport(ctx, profile.AthleteID, report)
	return o.snapshotLocked(), nil
}

// Back returns from RESULTS to CHECK_IN, keeping the profile and last metrics.
func (o *Orchestrator) Back() (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.requireLocked(StateResults, "go back"); err != nil {
		return o.snapshotLocked(), err
	}
	o.report = nil
	o.state = StateCheckIn
	return o.snapshotLocked(), nil
}

// Reset clears the local cache and all in-memory state. It is allowed while a
// request is in flight; that request's result is discarded.
func (o *Orchestrator) Reset() (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.Clear(); err != nil {
		return o.snapshotLocked(), fmt.Errorf("clear profile cache: %w", err)
	}

	o.generation++
	o.loading = false
	o.profile = nil
	o.report = nil
	o.metrics = domain.DefaultMetricVector()
	o.state = StateOnboarding
	o.logger.Info("session reset")
	return o.snapshotLocked(), nil
}

// discardCachedLocked removes a profile written by a request that a reset
// superseded. A newer registration in the cache is left alone.
func (o *Orchestrator) discardCachedLocked(athleteID string) {
	cached, err := o.store.Load()
	if err != nil || cached.AthleteID != athleteID {
		return
	}
	if err := o.store.Clear(); err != nil {
		o.logger.Error("clear superseded profile", "athlete_id", athleteID, "error", err)
	}
}

// requireLocked checks the state and the in-flight guard. Callers hold mu.
func (o *Orchestrator) requireLocked(want State, action string) error {
	if o.loading {
		return ErrBusy
	}
	if o.state != want {
		return fmt.Errorf("%w: cannot %s in %s", ErrInvalidTransition, action, o.state)
	}
	return nil
}
