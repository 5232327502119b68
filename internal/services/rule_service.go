package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/models"
)

var (
	ErrRuleNotFound    = errors.New("approval rule not found")
	ErrInvalidRule     = errors.New("invalid approval rule")
	ErrInvalidOutcome  = errors.New("rule outcome must be approve, reject or manual")
	ErrInvalidRiskBand = errors.New("rule risk levels must be critical, high, medium or low")
)

// RuleService owns CRUD for approval rules and writes an audit entry for
// every change. Rules are read-only during evaluation; the engine receives
// a snapshot slice.
type RuleService struct {
	DB *gorm.DB
}

func NewRuleService(db *gorm.DB) *RuleService {
	return &RuleService{DB: db}
}

// List returns all rules in evaluation order.
func (s *RuleService) List() ([]models.ApprovalRule, error) {
	var rules []models.ApprovalRule
	err := s.DB.Order("priority asc, id asc").Find(&rules).Error
	return rules, err
}

// Snapshot returns the enabled rules in evaluation order.
func (s *RuleService) Snapshot() ([]models.ApprovalRule, error) {
	var rules []models.ApprovalRule
	err := s.DB.Where("enabled = ?", true).Order("priority asc, id asc").Find(&rules).Error
	return rules, err
}

func (s *RuleService) Get(ruleUUID string) (*models.ApprovalRule, error) {
	var rule models.ApprovalRule
	if err := s.DB.Where("uuid = ?", ruleUUID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (s *RuleService) Create(rule *models.ApprovalRule, actor string) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rule).Error; err != nil {
			return err
		}
		return s.audit(tx, actor, "rule_created", fmt.Sprintf("rule %s (%s) created", rule.Name, rule.UUID))
	})
}

func (s *RuleService) Update(rule *models.ApprovalRule, actor string) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ApprovalRule{}).Where("uuid = ?", rule.UUID).Updates(map[string]interface{}{
			"name":             rule.Name,
			"priority":         rule.Priority,
			"enabled":          rule.Enabled,
			"outcome":          rule.Outcome,
			"reason":           rule.Reason,
			"action_types":     rule.ActionTypes,
			"min_risk_level":   rule.MinRiskLevel,
			"max_risk_level":   rule.MaxRiskLevel,
			"min_trust":        rule.MinTrust,
			"max_trust":        rule.MaxTrust,
			"allow_requesters": rule.AllowRequesters,
			"deny_requesters":  rule.DenyRequesters,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRuleNotFound
		}
		return s.audit(tx, actor, "rule_updated", fmt.Sprintf("rule %s (%s) updated", rule.Name, rule.UUID))
	})
}

func (s *RuleService) Delete(ruleUUID, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("uuid = ?", ruleUUID).Delete(&models.ApprovalRule{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRuleNotFound
		}
		return s.audit(tx, actor, "rule_deleted", fmt.Sprintf("rule %s deleted", ruleUUID))
	})
}

// AuditLog returns recent audit entries, newest first.
func (s *RuleService) AuditLog(limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	q := s.DB.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}

func (s *RuleService) audit(tx *gorm.DB, actor, action, details string) error {
	return tx.Create(&models.AuditEntry{
		UUID:      uuid.NewString(),
		Actor:     actor,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}).Error
}

func validateRule(rule *models.ApprovalRule) error {
	if rule == nil || rule.Name == "" {
		return ErrInvalidRule
	}
	switch rule.Outcome {
	case models.RuleOutcomeApprove, models.RuleOutcomeReject, models.RuleOutcomeManual:
	default:
		return ErrInvalidOutcome
	}
	if rule.MinRiskLevel != "" && !rule.MinRiskLevel.Valid() {
		return ErrInvalidRiskBand
	}
	if rule.MaxRiskLevel != "" && !rule.MaxRiskLevel.Valid() {
		return ErrInvalidRiskBand
	}
	if rule.MinTrust != nil && (*rule.MinTrust < 0 || *rule.MinTrust > 100) {
		return ErrInvalidRule
	}
	if rule.MaxTrust != nil && (*rule.MaxTrust < 0 || *rule.MaxTrust > 100) {
		return ErrInvalidRule
	}
	return nil
}
