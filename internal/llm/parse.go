package llm

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/blaisecz/athlete-readiness/internal/domain"
)

type protocolPayload struct {
	Name            *string   `json:"name"`
	DurationMinutes *float64  `json:"duration_minutes"`
	Steps           *[]string `json:"steps"`
	Script          *string   `json:"script"`
	ShortVariant    string    `json:"short_variant"`
	MinimalPlan     string    `json:"minimal_plan"`
}

// ParseAnalysis validates raw inference output against the readiness contract.
//
// Unparseable content or an absent required field yields MalformedResponse.
// A non-numeric or out-of-range global_score, or an unknown classification
// token, yields SchemaViolation. Free text is cut to domain.MaxTextLength.
func ParseAnalysis(content []byte) (*domain.AnalysisOutput, error) {
	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		return nil, newError(KindMalformedResponse, "empty content")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err != nil {
		return nil, newError(KindMalformedResponse, "not a JSON object: %w", err)
	}
	for _, key := range []string{"global_score", "classification", "insight", "protocol"} {
		if raw, ok := fields[key]; !ok || isNull(raw) {
			return nil, newError(KindMalformedResponse, "missing required field %q", key)
		}
	}

	var score float64
	if err := json.Unmarshal(fields["global_score"], &score); err != nil {
		return nil, newError(KindSchemaViolation, "global_score is not a number: %s", fields["global_score"])
	}
	if score < 0 || score > 1 {
		return nil, newError(KindSchemaViolation, "global_score %v outside [0,1]", score)
	}

	var classification string
	if err := json.Unmarshal(fields["classification"], &classification); err != nil {
		return nil, newError(KindSchemaViolation, "classification is not a string: %s", fields["classification"])
	}
	if _, err := domain.ParseTier(classification); err != nil {
		return nil, newError(KindSchemaViolation, "%w", err)
	}

	out := &domain.AnalysisOutput{
		GlobalScore:    score,
		Classification: classification,
	}

	if err := json.Unmarshal(fields["insight"], &out.Insight); err != nil {
		return nil, newError(KindMalformedResponse, "insight: %w", err)
	}
	if err := decodeOptional(fields, "strengths", &out.Strengths); err != nil {
		return nil, err
	}
	if err := decodeOptional(fields, "alerts", &out.Alerts); err != nil {
		return nil, err
	}

	var p protocolPayload
	if err := json.Unmarshal(fields["protocol"], &p); err != nil {
		return nil, newError(KindMalformedResponse, "protocol: %w", err)
	}
	if p.Name == nil || p.Steps == nil || p.Script == nil {
		return nil, newError(KindMalformedResponse, "protocol requires name, steps and script")
	}
	out.Protocol = domain.Protocol{
		Name:         truncate(*p.Name),
		Steps:        truncateAll(*p.Steps),
		Script:       truncate(*p.Script),
		ShortVariant: truncate(p.ShortVariant),
		MinimalPlan:  truncate(p.MinimalPlan),
	}
	if p.DurationMinutes != nil {
		d := *p.DurationMinutes
		if math.IsNaN(d) || d < 0 || d > domain.MaxProtocolMinutes {
			return nil, newError(KindSchemaViolation, "protocol duration_minutes %v outside [0,%d]", d, domain.MaxProtocolMinutes)
		}
		out.Protocol.DurationMinutes = int(math.Round(d))
	}

	out.Insight = truncate(out.Insight)
	if out.Strengths == nil {
		out.Strengths = []domain.LabeledValue{}
	}
	if out.Alerts == nil {
		out.Alerts = []domain.LabeledValue{}
	}
	for i := range out.Strengths {
		out.Strengths[i].Key = truncate(out.Strengths[i].Key)
	}
	for i := range out.Alerts {
		out.Alerts[i].Key = truncate(out.Alerts[i].Key)
	}
	return out, nil
}

func decodeOptional(fields map[string]json.RawMessage, key string, dst *[]domain.LabeledValue) error {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return newError(KindMalformedResponse, "%s: %w", key, err)
	}
	return nil
}

// ParseProfileSummary extracts profile_summary from enrichment output.
func ParseProfileSummary(content []byte) (string, error) {
	var out struct {
		ProfileSummary *string `json:"profile_summary"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(content), &out); err != nil {
		return "", newError(KindMalformedResponse, "not a JSON object: %w", err)
	}
	if out.ProfileSummary == nil {
		return "", newError(KindMalformedResponse, "missing required field %q", "profile_summary")
	}
	return truncate(strings.TrimSpace(*out.ProfileSummary)), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= domain.MaxTextLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:domain.MaxTextLength])
}

func truncateAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = truncate(s)
	}
	return out
}
