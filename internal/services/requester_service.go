package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/models"
)

var (
	ErrRequesterNotFound = errors.New("requester not found")
	ErrRequesterDisabled = errors.New("requester is disabled")
	ErrInvalidTrustLevel = errors.New("trust level must be between 0 and 100")
)

// RequesterService maintains the registry of agent identities allowed to
// submit actions, plus their trust level and per-requester counters.
type RequesterService struct {
	DB *gorm.DB
}

func NewRequesterService(db *gorm.DB) *RequesterService {
	return &RequesterService{DB: db}
}

// Resolve looks up an enabled requester by uuid.
func (s *RequesterService) Resolve(uuid string) (*models.Requester, error) {
	var requester models.Requester
	if err := s.DB.Where("uuid = ?", uuid).First(&requester).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequesterNotFound
		}
		return nil, err
	}
	if !requester.Enabled {
		return nil, ErrRequesterDisabled
	}
	return &requester, nil
}

func (s *RequesterService) List() ([]models.Requester, error) {
	var requesters []models.Requester
	err := s.DB.Order("name asc").Find(&requesters).Error
	return requesters, err
}

func (s *RequesterService) Create(r *models.Requester) error {
	if r.TrustLevel < 0 || r.TrustLevel > 100 {
		return ErrInvalidTrustLevel
	}
	return s.DB.Create(r).Error
}

func (s *RequesterService) Update(r *models.Requester) error {
	if r.TrustLevel < 0 || r.TrustLevel > 100 {
		return ErrInvalidTrustLevel
	}
	return s.DB.Save(r).Error
}

func (s *RequesterService) Delete(uuid string) error {
	res := s.DB.Where("uuid = ?", uuid).Delete(&models.Requester{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequesterNotFound
	}
	return nil
}

// RecordOutcome bumps the requester counter for an intercepted action on
// the caller's handle, so it joins whatever transaction the caller runs.
// Increments are column expressions, not read-modify-write, so concurrent
// interceptions for the same requester never lose updates.
func (s *RequesterService) RecordOutcome(db *gorm.DB, uuid string, counter string) error {
	switch counter {
	case "approved_count", "rejected_count", "pending_count":
	default:
		return fmt.Errorf("unknown counter %q", counter)
	}
	return db.Model(&models.Requester{}).
		Where("uuid = ?", uuid).
		Update(counter, gorm.Expr(counter+" + 1")).Error
}
