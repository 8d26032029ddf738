package postgres

import (
	"context"

	"github.com/Badsnus/campus-events/internal/domain/entity"
	"gorm.io/gorm"
)

type NotificationStorage struct {
	db *gorm.DB
}

func NewNotificationStorage(db *gorm.DB) *NotificationStorage {
	return &NotificationStorage{
		db: db,
	}
}

func (s *NotificationStorage) Create(ctx context.Context, notification *entity.EventNotification) error {
	return s.db.WithContext(ctx).Create(notification).Error
}

// GetUnnotifiedUsers returns the participants of an event that have not been
// sent a reminder of the given type yet
func (s *NotificationStorage) GetUnnotifiedUsers(ctx context.Context, eventID string, notificationType entity.NotificationType) ([]entity.EventParticipant, error) {
	var participants []entity.EventParticipant

	err := s.db.WithContext(ctx).
		Joins("LEFT JOIN event_notifications ON event_notifications.user_id = event_participants.user_id AND event_notifications.event_id = event_participants.event_id AND event_notifications.type = ?", notificationType).
		Where("event_participants.event_id = ? AND event_notifications.id IS NULL", eventID).
		Find(&participants).Error

	return participants, err
}
