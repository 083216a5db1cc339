package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MaxTextLength bounds every free-text field of a report, in runes.
const MaxTextLength = 200

// MaxProtocolMinutes bounds the suggested protocol duration.
const MaxProtocolMinutes = 120

// LabeledValue is one strength or alert, e.g. {"key": "motivation", "value": 9}.
type LabeledValue struct {
	Key   string  `json:"key" example:"motivation"`
	Value float64 `json:"value" example:"9"`
}

// Protocol is the psychological tool suggested for the day.
// @Description Suggested mental-skills protocol.
type Protocol struct {
	Name            string   `json:"name" example:"Box breathing"`
	DurationMinutes int      `json:"duration_minutes" example:"5"`
	Steps           []string `json:"steps"`
	Script          string   `json:"script" example:"Calm body, clear mind."`
	// Abbreviated version for when time is short
	ShortVariant string `json:"short_variant,omitempty"`
	// Minimal-effort plan, only kept for the RED tier
	MinimalPlan string `json:"minimal_plan,omitempty"`
}

// AnalysisOutput is the validated content returned by the inference service.
// Classification is the service's own, advisory, token.
type AnalysisOutput struct {
	GlobalScore    float64        `json:"global_score"`
	Classification string         `json:"classification"`
	Insight        string         `json:"insight"`
	Strengths      []LabeledValue `json:"strengths"`
	Alerts         []LabeledValue `json:"alerts"`
	Protocol       Protocol       `json:"protocol"`
}

// Report is the derived analysis for one metric vector. It is never mutated after creation.
// @Description Readiness report for one check-in.
type Report struct {
	GlobalScore    float64        `json:"global_score" example:"0.82"`
	Classification Tier           `json:"classification" example:"GREEN"`
	Insight        string         `json:"insight"`
	Strengths      []LabeledValue `json:"strengths"`
	Alerts         []LabeledValue `json:"alerts"`
	Protocol       Protocol       `json:"protocol"`
	Metrics        MetricVector   `json:"metrics"`
	GeneratedAt    time.Time      `json:"generated_at"`
	// Trace ID for feedback (only present when Langfuse is enabled)
	TraceID string `json:"trace_id,omitempty"`
}

// DailyReport is the append-only remote history row for one report.
type DailyReport struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AthleteID      string         `gorm:"type:varchar(64);not null;index:idx_daily_reports_athlete_created" json:"athlete_id"`
	Metrics        datatypes.JSON `gorm:"type:jsonb;not null" json:"metrics"`
	Classification Tier           `gorm:"type:varchar(10);not null" json:"classification"`
	GlobalScore    float64        `gorm:"not null" json:"global_score"`
	Insight        string         `gorm:"type:text" json:"insight"`
	CreatedAt      time.Time      `gorm:"not null;index:idx_daily_reports_athlete_created,sort:desc" json:"created_at"`
}

func (DailyReport) TableName() string {
	return "daily_reports"
}

// NewDailyReport builds a fresh history row. Every call gets its own ID so two
// inserts for the same athlete never collapse into one.
func NewDailyReport(athleteID string, r *Report) (*DailyReport, error) {
	metrics, err := json.Marshal(r.Metrics)
	if err != nil {
		return nil, fmt.Errorf("marshal metrics: %w", err)
	}
	createdAt := r.GeneratedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &DailyReport{
		ID:             uuid.New(),
		AthleteID:      athleteID,
		Metrics:        datatypes.JSON(metrics),
		Classification: r.Classification,
		GlobalScore:    r.GlobalScore,
		Insight:        r.Insight,
		CreatedAt:      createdAt,
	}, nil
}
