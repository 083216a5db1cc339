package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/langfuse"
	"github.com/blaisecz/athlete-readiness/internal/llm"
	"github.com/blaisecz/athlete-readiness/internal/metrics"
	"github.com/blaisecz/athlete-readiness/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AnalysisService turns a metric vector into a readiness report.
type AnalysisService interface {
	// Analyze validates the metrics, calls the inference service and derives
	// the final tier locally from the returned score.
	Analyze(ctx context.Context, profile *domain.Profile, metrics domain.MetricVector) (*domain.Report, error)
}

type analysisService struct {
	analyzer llm.Analyzer
	langfuse langfuse.Client
	metrics  *metrics.Manager
	logger   *slog.Logger
	now      func() time.Time
}

func NewAnalysisService(analyzer llm.Analyzer, langfuseClient langfuse.Client, m *metrics.Manager) AnalysisService {
	return &analysisService{
		analyzer: analyzer,
		langfuse: langfuseClient,
		metrics:  m,
		logger:   slog.Default().With("component", "analysis"),
		now:      time.Now,
	}
}

func (s *analysisService) Analyze(ctx context.Context, profile *domain.Profile, vector domain.MetricVector) (*domain.Report, error) {
	if !profile.Valid() {
		return nil, fmt.Errorf("%w: analysis requires a complete profile", domain.ErrInvalidInput)
	}
	if err := vector.Validate(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer("analysis").Start(ctx, "AnalysisService.Analyze",
		trace.WithAttributes(attribute.String("athlete.id", profile.AthleteID)),
	)
	defer span.End()

	input := map[string]any{
		"profile": profile,
		"metrics": vector,
	}
	if inputJSON, err := json.Marshal(input); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.input", string(inputJSON)))
	}

	if s.analyzer == nil {
		err := &llm.AnalysisError{Kind: llm.KindConfiguration, Err: llm.ErrConfiguration}
		s.fail(span, err)
		return nil, err
	}

	start := time.Now()
	out, err := s.analyzer.AnalyzeReadiness(ctx, profile, vector)
	elapsed := time.Since(start)
	if err != nil {
		s.fail(span, err)
		return nil, err
	}

	score := domain.ClampScore(out.GlobalScore)
	tier := domain.Classify(score)
	s.checkReportedTier(profile.AthleteID, out.Classification, tier, score)

	protocol := out.Protocol
	if tier != domain.TierRed {
		protocol.MinimalPlan = ""
	}

	report := &domain.Report{
		GlobalScore:    score,
		Classification: tier,
		Insight:        out.Insight,
		Strengths:      nonNil(out.Strengths),
		Alerts:         nonNil(out.Alerts),
		Protocol:       protocol,
		Metrics:        vector,
		GeneratedAt:    s.now().UTC(),
	}
	report.TraceID = s.recordTrace(ctx, span, profile, vector, out.Classification, report)

	span.SetAttributes(
		attribute.String("readiness.tier", string(tier)),
		attribute.Float64("readiness.score", score),
	)
	if outputJSON, err := json.Marshal(report); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.output", string(outputJSON)))
	}

	s.metrics.RecordAnalysis(metrics.OutcomeSuccess, elapsed)
	s.metrics.RecordTier(string(tier))
	s.logger.Info("analysis complete", "athlete_id", profile.AthleteID, "tier", tier, "score", score, "duration", elapsed)
	return report, nil
}

func (s *analysisService) fail(span trace.Span, err error) {
	kind, ok := llm.KindOf(err)
	if !ok {
		kind = "Unknown"
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, string(kind))
	s.metrics.RecordAnalysis(string(kind), 0)
	s.logger.Warn("analysis failed", "kind", kind, "retryable", kind.Retryable(), "error", err)
}

// checkReportedTier logs and counts disagreement between the inference
// service's classification and the locally derived tier.
func (s *analysisService) checkReportedTier(athleteID, reported string, derived domain.Tier, score float64) {
	tier, err := domain.ParseTier(reported)
	if err != nil {
		s.logger.Warn("unrecognized reported classification", "athlete_id", athleteID, "reported", reported, "derived", derived)
		s.metrics.RecordOverride("UNKNOWN", string(derived))
		return
	}
	if tier != derived {
		s.logger.Info("classification overridden", "athlete_id", athleteID, "reported", reported, "derived", derived, "score", score)
		s.metrics.RecordOverride(string(tier), string(derived))
	}
}

// recordTrace queues a Langfuse trace for the analysis. Without Langfuse the
// OpenTelemetry trace id is used so feedback can still be correlated.
func (s *analysisService) recordTrace(ctx context.Context, span trace.Span, profile *domain.Profile, vector domain.MetricVector, reported string, report *domain.Report) string {
	if s.langfuse != nil && s.langfuse.IsEnabled() {
		traceID, err := s.langfuse.CreateTrace(ctx, langfuse.TraceInput{
			UserID: profile.AthleteID,
			Name:   langfuse.TraceReadinessAnalysis,
			Input: map[string]any{
				"profile": profile,
				"metrics": vector,
			},
			Output: report,
			Tags:   []string{string(report.Classification)},
			Metadata: map[string]any{
				"reported_classification": reported,
			},
		})
		if err != nil {
			s.logger.Warn("langfuse trace failed", "error", err)
		}
		if traceID != "" {
			return traceID
		}
	}

	if sc := span.SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

func nonNil(values []domain.LabeledValue) []domain.LabeledValue {
	if values == nil {
		return []domain.LabeledValue{}
	}
	return values
}
