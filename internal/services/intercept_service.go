package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/engine"
	"github.com/gatewarden/gatewarden/internal/logger"
	"github.com/gatewarden/gatewarden/internal/metrics"
	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/risk"
	"github.com/gatewarden/gatewarden/internal/scanner"
)

// ClassificationFallbackReason is used when scoring or rule evaluation
// cannot complete; the action resolves to pending, never to approval.
const ClassificationFallbackReason = "classification did not complete; queued for manual review"

// InterceptRequest is one action submitted to the pipeline.
type InterceptRequest struct {
	RequesterUUID    string
	Type             string
	Description      string
	Params           map[string]interface{}
	ValueUSD         float64
	ContentFragments []string
	TTL              *time.Duration // nil selects the system default
}

// InterceptResult is returned to the caller after the synchronous
// classification and rule steps. Events carries the domain events the
// notification dispatcher should consume; the core never notifies itself.
type InterceptResult struct {
	Action        models.Action           `json:"action"`
	Decision      string                  `json:"decision"` // approved, rejected, pending
	Reason        string                  `json:"reason"`
	RiskScore     int                     `json:"risk_score"`
	QueuePosition int                     `json:"queue_position,omitempty"`
	QueueSize     int                     `json:"queue_size,omitempty"`
	Events        []Event                 `json:"-"`
	Content       *scanner.ContentContext `json:"content,omitempty"`
}

// InterceptService is the single entry point that wires the scanner, the
// risk scorer, the rule engine and the approval queue together per
// incoming action.
type InterceptService struct {
	DB         *gorm.DB
	Scanner    *scanner.Scanner
	Rules      *RuleService
	Requesters *RequesterService
	Queue      *QueueService
	Retention  int
}

func NewInterceptService(db *gorm.DB, sc *scanner.Scanner, rules *RuleService, requesters *RequesterService, queue *QueueService, retention int) *InterceptService {
	return &InterceptService{
		DB:         db,
		Scanner:    sc,
		Rules:      rules,
		Requesters: requesters,
		Queue:      queue,
		Retention:  retention,
	}
}

// Intercept runs the full pipeline for one action. Unknown requesters fail
// with ErrRequesterNotFound before any state is created. Classification
// failures and expired deadlines resolve the action to pending.
func (s *InterceptService) Intercept(ctx context.Context, req InterceptRequest) (*InterceptResult, error) {
	requester, err := s.Requesters.Resolve(req.RequesterUUID)
	if err != nil {
		return nil, err
	}

	metrics.IncIntercepted()

	var content *scanner.ContentContext
	if len(req.ContentFragments) > 0 {
		scanned := s.Scanner.ScanEntries(req.ContentFragments)
		content = &scanned
	}

	verdict := s.classify(ctx, req, requester, content)

	params := "{}"
	if len(req.Params) > 0 {
		if raw, err := json.Marshal(req.Params); err == nil {
			params = string(raw)
		}
	}

	action := models.Action{
		RequesterUUID: requester.UUID,
		Type:          req.Type,
		Description:   req.Description,
		Params:        params,
		ValueUSD:      req.ValueUSD,
		RiskScore:     verdict.score,
		RiskLevel:     verdict.level,
		Status:        models.ActionStatusPending,
	}

	var events []Event
	if content.Compromised() {
		events = append(events, Event{
			Type:    EventCompromiseDetected,
			Title:   "Content compromise detected",
			Message: fmt.Sprintf("Requester %s submitted content flagged as compromised (%d critical, %d high severity matches).", requester.Name, content.CriticalCount, content.HighCount),
			Data:    map[string]interface{}{"requester": requester.UUID},
		})
	}

	result := &InterceptResult{Reason: verdict.reason, RiskScore: verdict.score, Content: content}

	switch verdict.outcome {
	case engine.OutcomeAutoApprove:
		if err := s.recordImmediate(&action, models.DecisionApprove, verdict.reason, requester.UUID); err != nil {
			return nil, err
		}
		metrics.IncAutoApproved()
		result.Decision = string(models.ActionStatusApproved)
		events = append(events, decisionEvent(&action, "auto-approved"))

	case engine.OutcomeAutoReject:
		if err := s.recordImmediate(&action, models.DecisionReject, verdict.reason, requester.UUID); err != nil {
			return nil, err
		}
		metrics.IncAutoRejected()
		result.Decision = string(models.ActionStatusRejected)
		events = append(events, decisionEvent(&action, "auto-rejected"))

	default:
		ttl := time.Duration(-1)
		if req.TTL != nil {
			ttl = *req.TTL
		}
		pending, err := s.enqueue(&action, ttl, verdict.reason, requester.UUID)
		if err != nil {
			return nil, err
		}
		result.Decision = string(models.ActionStatusPending)
		if pos, err := s.Queue.Position(pending); err == nil {
			result.QueuePosition = pos
		}
		if size, err := s.Queue.CountPending(); err == nil {
			result.QueueSize = int(size)
		}
		events = append(events, Event{
			Type:    EventPendingCreated,
			Title:   "Approval required",
			Message: fmt.Sprintf("Action %q from %s is awaiting manual review (%s risk).", action.Type, requester.Name, action.RiskLevel),
			Data:    map[string]interface{}{"action": action.UUID, "priority": string(action.RiskLevel)},
		})
	}

	result.Action = action
	result.Events = events
	return result, nil
}

type classification struct {
	outcome engine.Outcome
	reason  string
	score   int
	level   models.RiskLevel
}

// classify scores the action and evaluates the rules. Any panic or an
// already-expired deadline resolves to pending: the pipeline fails toward
// human review, never toward approval.
func (s *InterceptService) classify(ctx context.Context, req InterceptRequest, requester *models.Requester, content *scanner.ContentContext) (out classification) {
	out = classification{
		outcome: engine.OutcomePending,
		reason:  ClassificationFallbackReason,
		score:   100,
		level:   models.RiskLevelCritical,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(map[string]interface{}{"requester": requester.UUID}).
				Errorf("classification panic: %v", r)
			out = classification{
				outcome: engine.OutcomePending,
				reason:  ClassificationFallbackReason,
				score:   100,
				level:   models.RiskLevelCritical,
			}
		}
	}()

	if ctx.Err() != nil {
		return out
	}

	score, level := risk.Score(risk.Input{
		ActionType:     req.Type,
		RequesterTrust: requester.TrustLevel,
		ValueUSD:       req.ValueUSD,
		Content:        content,
	})

	rules, err := s.Rules.Snapshot()
	if err != nil {
		logger.Log().WithError(err).Error("failed to load rule snapshot")
		out.score, out.level = score, level
		return out
	}

	res := engine.Evaluate(rules, engine.Input{
		ActionType:    req.Type,
		RiskLevel:     level,
		RequesterUUID: requester.UUID,
		Trust:         requester.TrustLevel,
		Compromised:   content.Compromised(),
	})

	return classification{outcome: res.Outcome, reason: res.Reason, score: score, level: level}
}

// recordImmediate persists an auto-decided action and bumps the matching
// requester counter in one transaction.
func (s *InterceptService) recordImmediate(action *models.Action, outcome models.DecisionOutcome, reason, requesterUUID string) error {
	now := time.Now()
	action.DecisionOutcome = outcome
	action.DecisionMethod = models.DecisionMethodAuto
	action.DecisionReason = reason
	action.DecidedAt = &now
	counter := "approved_count"
	if outcome == models.DecisionReject {
		action.Status = models.ActionStatusRejected
		counter = "rejected_count"
	} else {
		action.Status = models.ActionStatusApproved
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(action).Error; err != nil {
			return err
		}
		return s.Requesters.RecordOutcome(tx, requesterUUID, counter)
	})
}

// enqueue persists the pending action, its queue entry and the requester's
// pending counter in one transaction. A failure on any of the three rolls
// back the others, so a pending action always has exactly one queue entry.
func (s *InterceptService) enqueue(action *models.Action, ttl time.Duration, reason, requesterUUID string) (*models.PendingApproval, error) {
	var pending *models.PendingApproval
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(action).Error; err != nil {
			return err
		}
		var err error
		if pending, err = s.Queue.EnqueueTx(tx, action, action.RiskLevel, ttl, reason); err != nil {
			return err
		}
		return s.Requesters.RecordOutcome(tx, requesterUUID, "pending_count")
	}); err != nil {
		return nil, err
	}
	s.Queue.noteQueued()
	return pending, nil
}

func decisionEvent(action *models.Action, verb string) Event {
	return Event{
		Type:    EventDecisionMade,
		Title:   fmt.Sprintf("Action %s", verb),
		Message: fmt.Sprintf("Action %q was %s: %s", action.Type, verb, action.DecisionReason),
		Data:    map[string]interface{}{"action": action.UUID, "outcome": string(action.DecisionOutcome)},
	}
}

// History returns decided actions, newest first, with offset pagination.
func (s *InterceptService) History(limit, offset int) ([]models.Action, int64, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var total int64
	base := s.DB.Model(&models.Action{}).Where("decided_at IS NOT NULL")
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var actions []models.Action
	err := s.DB.Where("decided_at IS NOT NULL").
		Order("decided_at desc").
		Limit(limit).Offset(offset).
		Find(&actions).Error
	return actions, total, err
}

// TrimHistory deletes the oldest decided actions beyond the retention
// bound. Pending actions are never trimmed.
func (s *InterceptService) TrimHistory() error {
	if s.Retention <= 0 {
		return nil
	}
	var total int64
	if err := s.DB.Model(&models.Action{}).Where("decided_at IS NOT NULL").Count(&total).Error; err != nil {
		return err
	}
	excess := total - int64(s.Retention)
	if excess <= 0 {
		return nil
	}
	return s.DB.Exec(
		`DELETE FROM actions WHERE id IN (
			SELECT id FROM actions WHERE decided_at IS NOT NULL ORDER BY decided_at ASC LIMIT ?
		)`, excess).Error
}
