package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/logger"
	"github.com/gatewarden/gatewarden/internal/models"
)

// NotificationService records internal notifications and fans pipeline
// events out to configured external providers.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

func normalizeURL(serviceType, rawURL string) string {
	if serviceType == "discord" {
		matches := discordWebhookRegex.FindStringSubmatch(rawURL)
		if len(matches) == 3 {
			id := matches[1]
			token := matches[2]
			return fmt.Sprintf("discord://%s@%s", token, id)
		}
	}
	return rawURL
}

// Internal Notifications (DB)

func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// Event dispatch

// Dispatch consumes events emitted by the pipeline core: each event becomes
// an internal notification and is forwarded to external providers that
// opted into its type. Failures are logged, never returned — notification
// delivery must not affect pipeline outcomes.
func (s *NotificationService) Dispatch(events []Event) {
	for _, ev := range events {
		if _, err := s.Create(internalType(ev.Type), ev.Title, ev.Message); err != nil {
			logger.Log().WithError(err).Warn("failed to record internal notification")
		}
		s.SendExternal(ev)
	}
}

func internalType(t EventType) models.NotificationType {
	switch t {
	case EventCompromiseDetected:
		return models.NotificationTypeError
	case EventApprovalExpired, EventPendingCreated:
		return models.NotificationTypeWarning
	case EventDecisionMade:
		return models.NotificationTypeSuccess
	default:
		return models.NotificationTypeInfo
	}
}

// External Notifications (Shoutrrr)

// SendExternal forwards one event to every enabled provider that opted into
// its type. Sends run asynchronously.
func (s *NotificationService) SendExternal(ev Event) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		if !wantsEvent(provider, ev.Type) {
			continue
		}

		go func(p models.NotificationProvider) {
			url := normalizeURL(p.Type, p.URL)
			msg := fmt.Sprintf("%s\n\n%s", ev.Title, ev.Message)
			if len(ev.Data) > 0 {
				var extra []string
				for k, v := range ev.Data {
					extra = append(extra, fmt.Sprintf("%s=%v", k, v))
				}
				msg = fmt.Sprintf("%s\n%s", msg, strings.Join(extra, " "))
			}
			if err := shoutrrr.Send(url, msg); err != nil {
				logger.WithFields(map[string]interface{}{
					"provider": p.Name,
					"event":    string(ev.Type),
				}).WithError(err).Warn("failed to send external notification")
			}
		}(provider)
	}
}

func wantsEvent(p models.NotificationProvider, t EventType) bool {
	switch t {
	case EventPendingCreated, EventApprovalExpired:
		return p.NotifyPending
	case EventDecisionMade:
		return p.NotifyDecisions
	case EventCompromiseDetected:
		return p.NotifyCompromise
	case EventRuleChanged:
		return p.NotifyRules
	default:
		return true
	}
}

// Provider CRUD

func (s *NotificationService) ListProviders() ([]models.NotificationProvider, error) {
	var providers []models.NotificationProvider
	result := s.DB.Order("created_at asc").Find(&providers)
	return providers, result.Error
}

func (s *NotificationService) CreateProvider(p *models.NotificationProvider) error {
	return s.DB.Create(p).Error
}

func (s *NotificationService) UpdateProvider(p *models.NotificationProvider) error {
	return s.DB.Save(p).Error
}

func (s *NotificationService) DeleteProvider(id string) error {
	return s.DB.Delete(&models.NotificationProvider{}, "id = ?", id).Error
}

// TestProvider sends a throwaway message so operators can verify a URL.
func (s *NotificationService) TestProvider(p models.NotificationProvider) error {
	url := normalizeURL(p.Type, p.URL)
	msg := fmt.Sprintf("Gatewarden test notification\n\nSent at %s", time.Now().Format(time.RFC3339))
	return shoutrrr.Send(url, msg)
}
