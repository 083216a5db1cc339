package llm

import (
	"fmt"
	"strings"

	"github.com/blaisecz/athlete-readiness/internal/domain"
)

// DefaultPersona is the coach voice used when no managed persona is available.
const DefaultPersona = `You are Coach Engine, a high-performance readiness coach.
Speak to the athlete directly, be warm but brief, and focus on what they can do today.`

// readinessContract is appended to every readiness system message, whatever
// persona is configured. It carries the output rules the parser enforces.
var readinessContract = fmt.Sprintf(`You receive an athlete profile and a daily self-report of biometric and psychological metrics, each from 1 (lowest) to 10 (highest).
For stress, fatigue and muscle_soreness a high number is a burden; for the other channels a high number is good.

Rules:
- Respond with ONLY JSON matching the declared response schema. No prose, no backticks.
- global_score is a number between 0 and 1 describing overall readiness.
- Classify: GREEN if global_score > %.1f, YELLOW if %.1f <= global_score <= %.1f, RED if global_score < %.1f.
- Every text field must be at most %d characters. Be extremely concise.
- strengths and alerts list the most relevant channels with their reported value.
- protocol is one short psychological tool for today, at most %d minutes. minimal_plan is the smallest useful action for a RED day.
- Do NOT provide medical advice or diagnoses.`,
	domain.GreenThreshold, domain.YellowThreshold, domain.GreenThreshold, domain.YellowThreshold,
	domain.MaxTextLength, domain.MaxProtocolMinutes)

// readinessSystemMessage puts the persona first and the contract last, so a
// managed persona can change the tone but not the output rules.
func readinessSystemMessage(persona string) string {
	persona = strings.TrimSpace(persona)
	if persona == "" {
		persona = DefaultPersona
	}
	return persona + "\n\n" + readinessContract
}

const readinessPromptTemplate = `Current state of the athlete as JSON.

- "profile" is the athlete's static profile.
- "metrics" is today's check-in.

JSON:

%s

Respond in the required JSON format.`

const profilePromptTemplate = `Structure this athlete profile and write profile_summary: one sentence (max %d characters) describing the athlete and the mental demands of their sport.

JSON:

%s`

const profileSystemPrompt = `You are Coach Engine, a high-performance readiness coach. Respond with ONLY a JSON document matching the declared response schema.`

var labeledValueList = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":   map[string]any{"type": "string"},
			"value": map[string]any{"type": "number"},
		},
		"required":             []string{"key", "value"},
		"additionalProperties": false,
	},
}

// readinessSchema is declared to the inference boundary as a strict JSON schema.
// Every property is required so the boundary refuses rather than omits.
var readinessSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"global_score": map[string]any{
			"type":        "number",
			"description": "Overall readiness between 0 and 1",
		},
		"classification": map[string]any{
			"type": "string",
			"enum": []string{string(domain.TierGreen), string(domain.TierYellow), string(domain.TierRed)},
		},
		"insight":   map[string]any{"type": "string"},
		"strengths": labeledValueList,
		"alerts":    labeledValueList,
		"protocol": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":             map[string]any{"type": "string"},
				"duration_minutes": map[string]any{"type": "number"},
				"steps": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"script":        map[string]any{"type": "string"},
				"short_variant": map[string]any{"type": "string"},
				"minimal_plan":  map[string]any{"type": "string"},
			},
			"required":             []string{"name", "duration_minutes", "steps", "script", "short_variant", "minimal_plan"},
			"additionalProperties": false,
		},
	},
	"required":             []string{"global_score", "classification", "insight", "strengths", "alerts", "protocol"},
	"additionalProperties": false,
}

var profileSummarySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"profile_summary": map[string]any{"type": "string"},
	},
	"required":             []string{"profile_summary"},
	"additionalProperties": false,
}
