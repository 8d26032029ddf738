package postgres

import (
	"context"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/entity"
	"gorm.io/gorm"
)

type EventStorage struct {
	db *gorm.DB
}

func NewEventStorage(db *gorm.DB) *EventStorage {
	return &EventStorage{
		db: db,
	}
}

// Create is a function that creates a new event in the database.
func (s *EventStorage) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	err := s.db.WithContext(ctx).Create(event).Error
	return event, err
}

// Get is a function that gets an event from the database by id.
func (s *EventStorage) Get(ctx context.Context, id string) (*entity.Event, error) {
	var event entity.Event
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	return &event, err
}

// UpdateStatus moves a pending event to status and reports how many rows were
// changed. Only the addressed event is touched.
func (s *EventStorage) UpdateStatus(ctx context.Context, id string, status entity.ApprovalStatus, decidedBy string, decidedAt time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&entity.Event{}).
		Where("id = ? AND status = ?", id, entity.StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	return res.RowsAffected, res.Error
}

// GetByStatus returns events with the given status, soonest first.
func (s *EventStorage) GetByStatus(ctx context.Context, status entity.ApprovalStatus) ([]entity.Event, error) {
	var events []entity.Event
	err := s.db.WithContext(ctx).Where("status = ?", status).Order("starts_at ASC").Find(&events).Error
	return events, err
}

// GetApproved returns approved events starting at or after from, soonest
// first. Empty clubIDs means all clubs, non-positive limit means no limit.
func (s *EventStorage) GetApproved(ctx context.Context, from time.Time, clubIDs []string, limit int) ([]entity.Event, error) {
	var events []entity.Event
	query := s.db.WithContext(ctx).Where("status = ? AND starts_at >= ?", entity.StatusApproved, from)
	if len(clubIDs) > 0 {
		query = query.Where("club_id IN ?", clubIDs)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("starts_at ASC").Find(&events).Error
	return events, err
}

// GetByClubIDs returns every event of the clubs, newest first.
func (s *EventStorage) GetByClubIDs(ctx context.Context, clubIDs []string) ([]entity.Event, error) {
	var events []entity.Event
	if len(clubIDs) == 0 {
		return events, nil
	}
	err := s.db.WithContext(ctx).Where("club_id IN ?", clubIDs).Order("starts_at DESC").Find(&events).Error
	return events, err
}

// GetUpcomingEvents returns approved events starting between from and before.
func (s *EventStorage) GetUpcomingEvents(ctx context.Context, from, before time.Time) ([]entity.Event, error) {
	var events []entity.Event
	err := s.db.WithContext(ctx).
		Where("status = ? AND starts_at >= ? AND starts_at <= ?", entity.StatusApproved, from, before).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}
