package domain

import (
	"fmt"
	"math"
	"strings"
)

// Tier is the readiness classification derived from the global score.
// @Description Readiness tier: GREEN (ready), YELLOW (caution), RED (recover).
type Tier string

const (
	TierGreen  Tier = "GREEN"
	TierYellow Tier = "YELLOW"
	TierRed    Tier = "RED"
)

// Score thresholds. GREEN is strictly above GreenThreshold, YELLOW covers
// [YellowThreshold, GreenThreshold] inclusive, RED is everything below.
const (
	GreenThreshold  = 0.7
	YellowThreshold = 0.5
)

// Classify maps a score to its tier. It is total: the score is clamped to
// [0, 1] first and NaN counts as 0.
func Classify(score float64) Tier {
	s := ClampScore(score)
	switch {
	case s > GreenThreshold:
		return TierGreen
	case s >= YellowThreshold:
		return TierYellow
	default:
		return TierRed
	}
}

// ClampScore bounds a score to [0, 1].
func ClampScore(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(1, score))
}

// Severity orders tiers: GREEN 0, YELLOW 1, RED 2.
func (t Tier) Severity() int {
	switch t {
	case TierGreen:
		return 0
	case TierYellow:
		return 1
	case TierRed:
		return 2
	}
	return -1
}

func (t Tier) Valid() bool {
	return t.Severity() >= 0
}

// ParseTier reads a tier token. The Spanish tokens used by earlier
// clients (VERDE, AMARILLO, ROJO) are accepted too.
func ParseTier(token string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "GREEN", "VERDE":
		return TierGreen, nil
	case "YELLOW", "AMARILLO":
		return TierYellow, nil
	case "RED", "ROJO":
		return TierRed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, token)
}
