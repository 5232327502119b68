package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Registry holds compiled detection patterns. Patterns are compiled once at
// construction; a definition that fails to compile rejects the whole load so
// a bad rule cannot silently disable scanning. The registry is immutable
// after construction and safe for concurrent use.
type Registry struct {
	patterns []compiled
	byCat    map[Category][]Definition
}

type compiled struct {
	def Definition
	re  *regexp.Regexp
}

// NewRegistry compiles the given definitions. All invalid definitions are
// reported in a single joined error.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{byCat: make(map[Category][]Definition)}
	var errs []error
	for _, def := range defs {
		if def.ID == "" {
			errs = append(errs, errors.New("pattern with empty id"))
			continue
		}
		if def.Confidence < 0 || def.Confidence > 100 {
			errs = append(errs, fmt.Errorf("pattern %s: confidence %d out of range", def.ID, def.Confidence))
			continue
		}
		if def.Severity == "" {
			sev, ok := DefaultSeverity(def.Category)
			if !ok {
				errs = append(errs, fmt.Errorf("pattern %s: unknown category %q and no explicit severity", def.ID, def.Category))
				continue
			}
			def.Severity = sev
		}
		expr := def.Expr
		if !def.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			errs = append(errs, fmt.Errorf("pattern %s: %w", def.ID, err))
			continue
		}
		r.patterns = append(r.patterns, compiled{def: def, re: re})
		r.byCat[def.Category] = append(r.byCat[def.Category], def)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// NewDefault builds a registry from the built-in pattern set.
func NewDefault() (*Registry, error) {
	return NewRegistry(DefaultDefinitions())
}

// Len returns the number of loaded patterns.
func (r *Registry) Len() int {
	return len(r.patterns)
}

// Scan runs every pattern over text and returns all matches, including
// overlapping spans, ordered by start position and then by pattern load
// order. Severity aggregation is the caller's responsibility.
func (r *Registry) Scan(text string) []Match {
	if text == "" {
		return nil
	}

	type indexed struct {
		m   Match
		idx int
	}
	var hits []indexed
	for i, p := range r.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			hits = append(hits, indexed{
				m: Match{
					PatternID:  p.def.ID,
					Category:   p.def.Category,
					Severity:   p.def.Severity,
					Confidence: p.def.Confidence,
					Reason:     p.def.Reason,
					Text:       text[loc[0]:loc[1]],
					Start:      loc[0],
					End:        loc[1],
				},
				idx: i,
			})
		}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].m.Start != hits[b].m.Start {
			return hits[a].m.Start < hits[b].m.Start
		}
		return hits[a].idx < hits[b].idx
	})

	out := make([]Match, len(hits))
	for i, h := range hits {
		out[i] = h.m
	}
	return out
}

// ScanMin behaves like Scan but drops matches below minConfidence.
func (r *Registry) ScanMin(text string, minConfidence int) []Match {
	all := r.Scan(text)
	out := all[:0:0]
	for _, m := range all {
		if m.Confidence >= minConfidence {
			out = append(out, m)
		}
	}
	return out
}

// ByCategory returns the definitions registered under a category.
func (r *Registry) ByCategory(c Category) []Definition {
	defs := r.byCat[c]
	out := make([]Definition, len(defs))
	copy(out, defs)
	return out
}
