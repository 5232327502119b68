package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/logger"
	"github.com/gatewarden/gatewarden/internal/metrics"
	"github.com/gatewarden/gatewarden/internal/models"
)

var (
	ErrPendingNotFound = errors.New("pending approval not found")
	ErrActionNotFound  = errors.New("action not found")
)

// ExpiredReason is recorded when the expiry sweep rejects an overdue item.
const ExpiredReason = "approval window expired; automatically rejected"

// Decision is the terminal resolution recorded for an action.
type Decision struct {
	Outcome   models.DecisionOutcome `json:"outcome"`
	Method    models.DecisionMethod  `json:"method"`
	Reason    string                 `json:"reason"`
	DecidedAt time.Time              `json:"decided_at"`
}

// QueueService persists pending approvals and owns every terminal state
// transition. All transitions are conditional UPDATEs guarded on the
// current status with a rows-affected check, so a manual decision and an
// expiry sweep racing on the same item agree on a single winner: the first
// writer wins and the loser observes the recorded decision.
type QueueService struct {
	DB         *gorm.DB
	DefaultTTL time.Duration
}

func NewQueueService(db *gorm.DB, defaultTTL time.Duration) *QueueService {
	if defaultTTL <= 0 {
		defaultTTL = 15 * time.Minute
	}
	return &QueueService{DB: db, DefaultTTL: defaultTTL}
}

// Enqueue creates the PendingApproval for an action. ttl < 0 selects the
// system default; ttl == 0 makes the item immediately eligible for expiry.
func (s *QueueService) Enqueue(action *models.Action, priority models.RiskLevel, ttl time.Duration, reason string) (*models.PendingApproval, error) {
	pending, err := s.EnqueueTx(s.DB, action, priority, ttl, reason)
	if err != nil {
		return nil, err
	}
	s.noteQueued()
	return pending, nil
}

// EnqueueTx creates the queue row on the caller's handle so it can commit
// atomically with the action row and the requester counter. The caller
// reports noteQueued after the transaction commits.
func (s *QueueService) EnqueueTx(db *gorm.DB, action *models.Action, priority models.RiskLevel, ttl time.Duration, reason string) (*models.PendingApproval, error) {
	if ttl < 0 {
		ttl = s.DefaultTTL
	}
	now := time.Now()
	pending := &models.PendingApproval{
		ActionUUID:    action.UUID,
		RequesterUUID: action.RequesterUUID,
		Priority:      priority,
		Status:        models.PendingStatusPending,
		Reason:        reason,
		EnqueuedAt:    now,
		ExpiresAt:     now.Add(ttl),
	}
	if err := db.Create(pending).Error; err != nil {
		return nil, fmt.Errorf("enqueue pending approval: %w", err)
	}
	return pending, nil
}

func (s *QueueService) noteQueued() {
	metrics.IncQueued()
	s.refreshPendingGauge()
}

// ListPending returns live queue items ordered critical > high > medium >
// low, FIFO within a priority band. orderBy "enqueued" sorts purely by
// enqueue time instead.
func (s *QueueService) ListPending(orderBy string) ([]models.PendingApproval, error) {
	order := "priority_rank desc, enqueued_at asc"
	if orderBy == "enqueued" {
		order = "enqueued_at asc"
	}
	var pending []models.PendingApproval
	err := s.DB.Where("status = ?", models.PendingStatusPending).Order(order).Find(&pending).Error
	return pending, err
}

// CountPending returns the live queue size.
func (s *QueueService) CountPending() (int64, error) {
	var n int64
	err := s.DB.Model(&models.PendingApproval{}).Where("status = ?", models.PendingStatusPending).Count(&n).Error
	return n, err
}

// Position returns the 1-based queue position of a pending item under
// priority ordering.
func (s *QueueService) Position(pending *models.PendingApproval) (int, error) {
	var ahead int64
	err := s.DB.Model(&models.PendingApproval{}).
		Where("status = ?", models.PendingStatusPending).
		Where("priority_rank > ? OR (priority_rank = ? AND enqueued_at < ?)",
			pending.PriorityRank, pending.PriorityRank, pending.EnqueuedAt).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

// Get returns one pending approval by uuid regardless of status.
func (s *QueueService) Get(pendingUUID string) (*models.PendingApproval, error) {
	var pending models.PendingApproval
	if err := s.DB.Where("uuid = ?", pendingUUID).First(&pending).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPendingNotFound
		}
		return nil, err
	}
	return &pending, nil
}

// Decide records a manual decision by actor. The first terminal transition
// wins: if the item was already resolved the recorded decision is returned
// with applied=false and the call has no effect. Applied decisions leave an
// audit entry naming the deciding operator.
func (s *QueueService) Decide(pendingUUID string, outcome models.DecisionOutcome, reason, actor string) (*Decision, bool, error) {
	status := models.PendingStatusApproved
	if outcome == models.DecisionReject {
		status = models.PendingStatusRejected
	}
	return s.transition(pendingUUID, Decision{
		Outcome:   outcome,
		Method:    models.DecisionMethodManual,
		Reason:    reason,
		DecidedAt: time.Now(),
	}, status, actor)
}

// ProcessExpired auto-rejects every overdue pending item. A failure on one
// item is collected and the sweep continues; the aggregated error and the
// count of items actually transitioned are returned. Items that lose the
// race to a concurrent manual decision are skipped, not counted.
func (s *QueueService) ProcessExpired() (int, []Event, error) {
	var overdue []models.PendingApproval
	if err := s.DB.Where("status = ? AND expires_at <= ?", models.PendingStatusPending, time.Now()).
		Find(&overdue).Error; err != nil {
		return 0, nil, fmt.Errorf("list overdue approvals: %w", err)
	}

	var (
		expired int
		events  []Event
		errs    []error
	)
	for _, item := range overdue {
		_, applied, err := s.transition(item.UUID, Decision{
			Outcome:   models.DecisionReject,
			Method:    models.DecisionMethodAuto,
			Reason:    ExpiredReason,
			DecidedAt: time.Now(),
		}, models.PendingStatusExpired, "")
		if err != nil {
			errs = append(errs, fmt.Errorf("expire %s: %w", item.UUID, err))
			continue
		}
		if !applied {
			continue
		}
		expired++
		events = append(events, Event{
			Type:    EventApprovalExpired,
			Title:   "Pending approval expired",
			Message: fmt.Sprintf("Action %s was auto-rejected after its approval window elapsed.", item.ActionUUID),
			Data:    map[string]interface{}{"action": item.ActionUUID, "priority": string(item.Priority)},
		})
	}

	if expired > 0 {
		metrics.AddExpired(expired)
		s.refreshPendingGauge()
	}
	return expired, events, errors.Join(errs...)
}

// transition applies the first-writer-wins state change for one item. The
// pending row, the action row, the requester counters and the manual-path
// audit entry move together in one transaction; the guard on the current
// status is the per-key compare-and-set that makes concurrent deciders
// agree.
func (s *QueueService) transition(pendingUUID string, d Decision, newStatus models.PendingStatus, actor string) (*Decision, bool, error) {
	var (
		recorded Decision
		applied  bool
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var pending models.PendingApproval
		if err := tx.Where("uuid = ?", pendingUUID).First(&pending).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPendingNotFound
			}
			return err
		}

		res := tx.Model(&models.PendingApproval{}).
			Where("uuid = ? AND status = ?", pendingUUID, models.PendingStatusPending).
			Updates(map[string]interface{}{
				"status":      newStatus,
				"resolved_at": d.DecidedAt,
				"reason":      d.Reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race: surface the decision the winner recorded.
			var action models.Action
			if err := tx.Where("uuid = ?", pending.ActionUUID).First(&action).Error; err != nil {
				return err
			}
			if !action.Decided() {
				return fmt.Errorf("pending %s resolved but action %s has no decision", pendingUUID, action.UUID)
			}
			recorded = Decision{
				Outcome:   action.DecisionOutcome,
				Method:    action.DecisionMethod,
				Reason:    action.DecisionReason,
				DecidedAt: *action.DecidedAt,
			}
			return nil
		}

		actionStatus := models.ActionStatusApproved
		counter := "approved_count"
		if d.Outcome == models.DecisionReject {
			actionStatus = models.ActionStatusRejected
			counter = "rejected_count"
		}
		res = tx.Model(&models.Action{}).
			Where("uuid = ? AND decided_at IS NULL", pending.ActionUUID).
			Updates(map[string]interface{}{
				"status":           actionStatus,
				"decision_outcome": d.Outcome,
				"decision_method":  d.Method,
				"decision_reason":  d.Reason,
				"decided_at":       d.DecidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("action %s already decided", pending.ActionUUID)
		}

		if err := tx.Model(&models.Requester{}).
			Where("uuid = ?", pending.RequesterUUID).
			Updates(map[string]interface{}{
				"pending_count": gorm.Expr("MAX(pending_count - 1, 0)"),
				counter:         gorm.Expr(counter + " + 1"),
			}).Error; err != nil {
			return err
		}

		if d.Method == models.DecisionMethodManual {
			if actor == "" {
				actor = "system"
			}
			if err := tx.Create(&models.AuditEntry{
				UUID:      uuid.NewString(),
				Actor:     actor,
				Action:    "manual_decision",
				Details:   fmt.Sprintf("pending %s manually %s: %s", pendingUUID, d.Outcome.Verb(), d.Reason),
				CreatedAt: d.DecidedAt,
			}).Error; err != nil {
				return err
			}
		}

		recorded = d
		applied = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if applied {
		s.refreshPendingGauge()
	}
	return &recorded, applied, nil
}

func (s *QueueService) refreshPendingGauge() {
	if n, err := s.CountPending(); err == nil {
		metrics.SetPending(n)
	} else {
		logger.Log().WithError(err).Debug("failed to refresh pending gauge")
	}
}
