package patterns

// Category is the threat category a detection pattern covers.
type Category string

const (
	CategoryAuthorityClaim      Category = "authority_claim"
	CategoryInstructionOverride Category = "instruction_override"
	CategoryAddressRedirection  Category = "address_redirection"
	CategoryAirdropScam         Category = "airdrop_scam"
	CategoryUrgencyManipulation Category = "urgency_manipulation"
	CategoryTrustExploitation   Category = "trust_exploitation"
	CategoryRoleManipulation    Category = "role_manipulation"
	CategoryContextPoisoning    Category = "context_poisoning"
	CategoryCryptoAttack        Category = "crypto_attack"
	CategoryDataExfiltration    Category = "data_exfiltration"
)

// Severity is a four-level ordinal attached to a detection match.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the ordinal position of the severity, critical highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// categorySeverity is the fixed default severity per category, used when a
// pattern definition does not carry an explicit severity.
var categorySeverity = map[Category]Severity{
	CategoryAuthorityClaim:      SeverityHigh,
	CategoryInstructionOverride: SeverityCritical,
	CategoryAddressRedirection:  SeverityCritical,
	CategoryAirdropScam:         SeverityHigh,
	CategoryUrgencyManipulation: SeverityMedium,
	CategoryTrustExploitation:   SeverityMedium,
	CategoryRoleManipulation:    SeverityHigh,
	CategoryContextPoisoning:    SeverityCritical,
	CategoryCryptoAttack:        SeverityCritical,
	CategoryDataExfiltration:    SeverityHigh,
}

// DefaultSeverity returns the fixed severity for a category and whether the
// category is known.
func DefaultSeverity(c Category) (Severity, bool) {
	s, ok := categorySeverity[c]
	return s, ok
}

// Definition is one declarative detection rule. Expr is a regular
// expression; matching is case-insensitive unless CaseSensitive is set.
type Definition struct {
	ID            string
	Expr          string
	Category      Category
	Severity      Severity // optional; falls back to the category default
	Confidence    int      // 0-100
	Reason        string
	CaseSensitive bool
}

// Match is one pattern hit against scanned text.
type Match struct {
	PatternID  string   `json:"pattern_id"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Confidence int      `json:"confidence"`
	Reason     string   `json:"reason"`
	Text       string   `json:"text"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
}
