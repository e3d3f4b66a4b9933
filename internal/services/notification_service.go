package services

import (
	"time"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/aloraops/alora-site/internal/logger"
	"github.com/aloraops/alora-site/internal/models"
)

// NotificationService records operator-facing events (abuse detections,
// dispatch failures) and fans them out to configured alert channels.
type NotificationService struct {
	DB        *gorm.DB
	alertURLs []string
}

// NewNotificationService wires the service with shoutrrr destination URLs
// from config. An empty list disables external fan-out.
func NewNotificationService(db *gorm.DB, alertURLs []string) *NotificationService {
	return &NotificationService{DB: db, alertURLs: alertURLs}
}

// Create persists an internal notification row.
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

// List returns notifications newest first.
func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

// MarkAsRead flags a single notification as read.
func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

// MarkAllAsRead flags every unread notification as read.
func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// Notify persists the event and sends it to external channels. Fan-out is
// best effort: a dead webhook must never fail the request that triggered
// the event.
func (s *NotificationService) Notify(nType models.NotificationType, title, message string) {
	if _, err := s.Create(nType, title, message); err != nil {
		logger.Log().WithError(err).Warn("failed to persist notification")
	}
	s.SendExternal(title, message)
}

// SendExternal pushes title/message to every configured alert URL.
func (s *NotificationService) SendExternal(title, message string) {
	for _, url := range s.alertURLs {
		go func(url string) {
			if err := shoutrrr.Send(url, title+"\n\n"+message); err != nil {
				logger.Log().WithError(err).Warn("failed to send external notification")
			}
		}(url)
	}
}

// PruneRead deletes read notifications older than the retention period.
// Run from the cron scheduler.
func (s *NotificationService) PruneRead(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.DB.Where("read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
