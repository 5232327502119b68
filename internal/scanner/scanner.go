// Package scanner applies the detection pattern registry to a sequence of
// content fragments, such as an agent's memory entries, and aggregates the
// results into a compromise verdict.
package scanner

import (
	"strings"

	"github.com/gatewarden/gatewarden/internal/patterns"
)

// Config tunes the aggregation thresholds.
type Config struct {
	// ConfidenceFloor is the minimum confidence for a match to flag its
	// entry as suspicious.
	ConfidenceFloor int
	// HighSeverityLimit is the number of high-severity matches that must be
	// exceeded before the content is considered compromised.
	HighSeverityLimit int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{ConfidenceFloor: 70, HighSeverityLimit: 2}
}

// EntryMatch ties a pattern match back to the entry it was found in.
type EntryMatch struct {
	EntryIndex int            `json:"entry_index"`
	Match      patterns.Match `json:"match"`
}

// ContentContext is the aggregated result of scanning a set of entries.
// It is a pure function of the input: scanning the same entries twice
// yields an identical context.
type ContentContext struct {
	Matches           []EntryMatch `json:"matches"`
	SuspiciousEntries []int        `json:"suspicious_entries"` // entry indices, ascending, unique
	CriticalCount     int          `json:"critical_count"`
	HighCount         int          `json:"high_count"`
	IsCompromised     bool         `json:"is_compromised"`
}

// SuspiciousCount returns the number of distinct suspicious entries.
func (c *ContentContext) SuspiciousCount() int {
	if c == nil {
		return 0
	}
	return len(c.SuspiciousEntries)
}

// Compromised is a nil-safe accessor for IsCompromised.
func (c *ContentContext) Compromised() bool {
	return c != nil && c.IsCompromised
}

// Scanner runs the registry over content fragments.
type Scanner struct {
	registry *patterns.Registry
	cfg      Config
}

// New returns a Scanner over the given registry.
func New(registry *patterns.Registry, cfg Config) *Scanner {
	if cfg.ConfidenceFloor <= 0 {
		cfg.ConfidenceFloor = DefaultConfig().ConfidenceFloor
	}
	if cfg.HighSeverityLimit <= 0 {
		cfg.HighSeverityLimit = DefaultConfig().HighSeverityLimit
	}
	return &Scanner{registry: registry, cfg: cfg}
}

// ScanEntries scans every entry and aggregates the verdict. Empty or blank
// entries contribute zero matches and are never an error. Compromise is
// declared when any match is critical severity, or when the count of
// high-severity matches exceeds the configured limit.
func (s *Scanner) ScanEntries(entries []string) ContentContext {
	ctx := ContentContext{}
	suspicious := map[int]bool{}

	for i, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		for _, m := range s.registry.Scan(entry) {
			ctx.Matches = append(ctx.Matches, EntryMatch{EntryIndex: i, Match: m})
			switch m.Severity {
			case patterns.SeverityCritical:
				ctx.CriticalCount++
			case patterns.SeverityHigh:
				ctx.HighCount++
			}
			if m.Confidence >= s.cfg.ConfidenceFloor {
				suspicious[i] = true
			}
		}
	}

	for i := range entries {
		if suspicious[i] {
			ctx.SuspiciousEntries = append(ctx.SuspiciousEntries, i)
		}
	}

	ctx.IsCompromised = ctx.CriticalCount > 0 || ctx.HighCount > s.cfg.HighSeverityLimit
	return ctx
}
