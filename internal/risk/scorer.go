// Package risk computes a bounded numeric risk score and a discrete risk
// level from action metadata, requester trust, monetary value and the
// content scanner's verdict. Scoring is a pure function of its inputs; the
// constants below are a policy contract pinned by tests.
package risk

import (
	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/scanner"
)

// baseScores maps action types to their base risk.
var baseScores = map[string]int{
	"transfer":      70,
	"swap":          65,
	"approve_token": 80,
	"deploy":        85,
	"execute":       75,
	"sign":          60,
	"message":       20,
	"query":         10,
}

// unknownTypeBase is applied when the action type is missing or not in the
// table. Missing and unrecognized types are treated identically: both fail
// toward the "execute" base rather than erroring.
const unknownTypeBase = 75

const compromiseSurcharge = 40

// Level thresholds.
const (
	criticalThreshold = 85
	highThreshold     = 70
	mediumThreshold   = 50
)

// Input carries everything the scorer looks at.
type Input struct {
	ActionType     string
	RequesterTrust int // 0-100
	ValueUSD       float64
	Content        *scanner.ContentContext // optional
}

// Score computes the clamped score and its level.
func Score(in Input) (int, models.RiskLevel) {
	score := baseScore(in.ActionType)

	trust := clamp(in.RequesterTrust, 0, 100)
	score += (100 - trust) * 20 / 100

	score += valueSurcharge(in.ValueUSD)

	if in.Content.Compromised() {
		score += compromiseSurcharge
	}
	score += 5 * in.Content.SuspiciousCount()

	score = clamp(score, 0, 100)
	return score, level(score)
}

func baseScore(actionType string) int {
	if base, ok := baseScores[actionType]; ok {
		return base
	}
	return unknownTypeBase
}

func valueSurcharge(usd float64) int {
	switch {
	case usd > 1000:
		return 20
	case usd > 100:
		return 10
	case usd > 10:
		return 5
	default:
		return 0
	}
}

func level(score int) models.RiskLevel {
	switch {
	case score >= criticalThreshold:
		return models.RiskLevelCritical
	case score >= highThreshold:
		return models.RiskLevelHigh
	case score >= mediumThreshold:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
