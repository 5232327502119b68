package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/scanner"
)

func TestScore_HighValueTransferFromLowTrust(t *testing.T) {
	score, level := Score(Input{
		ActionType:     "transfer",
		RequesterTrust: 20,
		ValueUSD:       5000,
	})

	// 70 base + 16 trust + 20 value = 106, clamped.
	assert.Equal(t, 100, score)
	assert.Equal(t, models.RiskLevelCritical, level)
}

func TestScore_TrustedMessage(t *testing.T) {
	score, level := Score(Input{
		ActionType:     "message",
		RequesterTrust: 90,
		ValueUSD:       0,
	})

	// 20 base + 2 trust.
	assert.Equal(t, 22, score)
	assert.Equal(t, models.RiskLevelLow, level)
}

func TestScore_BaseTable(t *testing.T) {
	cases := map[string]int{
		"transfer":      70,
		"swap":          65,
		"approve_token": 80,
		"deploy":        85,
		"execute":       75,
		"sign":          60,
		"message":       20,
		"query":         10,
	}
	for actionType, base := range cases {
		score, _ := Score(Input{ActionType: actionType, RequesterTrust: 100})
		assert.Equal(t, base, score, "base score for %s", actionType)
	}
}

func TestScore_UnknownAndMissingTypeShareABase(t *testing.T) {
	unknown, _ := Score(Input{ActionType: "teleport", RequesterTrust: 100})
	missing, _ := Score(Input{ActionType: "", RequesterTrust: 100})

	assert.Equal(t, 75, unknown)
	assert.Equal(t, unknown, missing)
}

func TestScore_ValueSurchargeSteps(t *testing.T) {
	at := func(usd float64) int {
		score, _ := Score(Input{ActionType: "query", RequesterTrust: 100, ValueUSD: usd})
		return score
	}

	assert.Equal(t, 10, at(0))
	assert.Equal(t, 10, at(10))
	assert.Equal(t, 15, at(10.01))
	assert.Equal(t, 15, at(100))
	assert.Equal(t, 20, at(500))
	assert.Equal(t, 20, at(1000))
	assert.Equal(t, 30, at(1000.01))
}

func TestScore_CompromiseSurcharge(t *testing.T) {
	clean, _ := Score(Input{ActionType: "query", RequesterTrust: 100})
	compromised, _ := Score(Input{
		ActionType:     "query",
		RequesterTrust: 100,
		Content:        &scanner.ContentContext{IsCompromised: true},
	})

	assert.Equal(t, 40, compromised-clean)
}

func TestScore_SuspiciousEntriesAddFiveEach(t *testing.T) {
	score, _ := Score(Input{
		ActionType:     "query",
		RequesterTrust: 100,
		Content:        &scanner.ContentContext{SuspiciousEntries: []int{0, 3, 7}},
	})

	assert.Equal(t, 25, score)
}

func TestScore_TrustOutOfRangeClamped(t *testing.T) {
	low, _ := Score(Input{ActionType: "query", RequesterTrust: -50})
	assert.Equal(t, 30, low) // treated as trust 0

	high, _ := Score(Input{ActionType: "query", RequesterTrust: 900})
	assert.Equal(t, 10, high) // treated as trust 100
}

func TestScore_MonotonicInTrust(t *testing.T) {
	prev := 101
	for trust := 0; trust <= 100; trust += 10 {
		score, _ := Score(Input{ActionType: "transfer", RequesterTrust: trust})
		assert.LessOrEqual(t, score, prev, "score must not rise as trust rises")
		prev = score
	}
}

func TestScore_Levels(t *testing.T) {
	cases := []struct {
		score int
		want  models.RiskLevel
	}{
		{100, models.RiskLevelCritical},
		{85, models.RiskLevelCritical},
		{84, models.RiskLevelHigh},
		{70, models.RiskLevelHigh},
		{69, models.RiskLevelMedium},
		{50, models.RiskLevelMedium},
		{49, models.RiskLevelLow},
		{0, models.RiskLevelLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, level(tc.score), "level for %d", tc.score)
	}
}

func TestScore_Pure(t *testing.T) {
	in := Input{
		ActionType:     "swap",
		RequesterTrust: 55,
		ValueUSD:       250,
		Content:        &scanner.ContentContext{SuspiciousEntries: []int{1}},
	}

	s1, l1 := Score(in)
	s2, l2 := Score(in)
	assert.Equal(t, s1, s2)
	assert.Equal(t, l1, l2)
}
