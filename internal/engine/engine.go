// Package engine evaluates configured approval rules against a classified
// action. Rules run in a fixed, deterministic order; the first matching
// rule decides the outcome. No matching rule means the action goes to
// manual review, never silent approval.
package engine

import (
	"sort"

	"github.com/gatewarden/gatewarden/internal/models"
)

// Outcome is the engine's verdict for an action.
type Outcome string

const (
	OutcomeAutoApprove Outcome = "auto_approve"
	OutcomeAutoReject  Outcome = "auto_reject"
	OutcomePending     Outcome = "pending"
)

// CompromiseReason is the fixed reason attached when the content scanner
// reported a compromised context. The bypass is absolute: no rule can
// override it.
const CompromiseReason = "memory compromise detected; action rejected before rule evaluation"

// NoMatchReason is attached when no configured rule matches.
const NoMatchReason = "no policy rule matched; queued for manual review"

// Input is the classified action the rules are evaluated against.
type Input struct {
	ActionType    string
	RiskLevel     models.RiskLevel
	RequesterUUID string
	Trust         int
	Compromised   bool
}

// Result carries the verdict, the reason and the rule that produced it.
type Result struct {
	Outcome  Outcome
	Reason   string
	RuleUUID string
}

// Evaluate runs the rules against the input. The rule slice is not
// mutated; evaluation orders a copy by ascending priority, ties broken by
// id, so the result is deterministic regardless of storage order.
func Evaluate(rules []models.ApprovalRule, in Input) Result {
	if in.Compromised {
		return Result{Outcome: OutcomeAutoReject, Reason: CompromiseReason}
	}

	ordered := make([]models.ApprovalRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].Priority != ordered[b].Priority {
			return ordered[a].Priority < ordered[b].Priority
		}
		return ordered[a].ID < ordered[b].ID
	})

	for _, rule := range ordered {
		if !rule.Enabled {
			continue
		}
		if !matches(rule, in) {
			continue
		}
		reason := rule.Reason
		if reason == "" {
			reason = "matched rule " + rule.Name
		}
		return Result{Outcome: outcomeFor(rule.Outcome), Reason: reason, RuleUUID: rule.UUID}
	}

	return Result{Outcome: OutcomePending, Reason: NoMatchReason}
}

func outcomeFor(o models.RuleOutcome) Outcome {
	switch o {
	case models.RuleOutcomeApprove:
		return OutcomeAutoApprove
	case models.RuleOutcomeReject:
		return OutcomeAutoReject
	case models.RuleOutcomeManual:
		return OutcomePending
	default:
		// Unknown outcome values fail toward human review.
		return OutcomePending
	}
}

func matches(rule models.ApprovalRule, in Input) bool {
	if types := models.SplitList(rule.ActionTypes); len(types) > 0 && !contains(types, in.ActionType) {
		return false
	}
	if rule.MinRiskLevel.Valid() && in.RiskLevel.Rank() < rule.MinRiskLevel.Rank() {
		return false
	}
	if rule.MaxRiskLevel.Valid() && in.RiskLevel.Rank() > rule.MaxRiskLevel.Rank() {
		return false
	}
	if rule.MinTrust != nil && in.Trust < *rule.MinTrust {
		return false
	}
	if rule.MaxTrust != nil && in.Trust > *rule.MaxTrust {
		return false
	}
	if allow := models.SplitList(rule.AllowRequesters); len(allow) > 0 && !contains(allow, in.RequesterUUID) {
		return false
	}
	if deny := models.SplitList(rule.DenyRequesters); contains(deny, in.RequesterUUID) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
