package models

// RiskLevel is the discrete classification produced by the risk scorer.
type RiskLevel string

const (
	RiskLevelCritical RiskLevel = "critical"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelLow      RiskLevel = "low"
)

// Rank returns the ordinal position of the level, critical highest.
// Used for priority ordering in the approval queue and for threshold
// comparisons in rule predicates.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelCritical:
		return 4
	case RiskLevelHigh:
		return 3
	case RiskLevelMedium:
		return 2
	case RiskLevelLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether l is one of the four known levels.
func (l RiskLevel) Valid() bool {
	return l.Rank() > 0
}
