package postgres

import (
	"context"
	"strings"

	"github.com/Badsnus/campus-events/internal/domain/entity"
	"gorm.io/gorm"
)

type ClubStorage struct {
	db *gorm.DB
}

func NewClubStorage(db *gorm.DB) *ClubStorage {
	return &ClubStorage{
		db: db,
	}
}

func (s *ClubStorage) Create(ctx context.Context, club *entity.Club) (*entity.Club, error) {
	err := s.db.WithContext(ctx).Create(club).Error
	return club, err
}

func (s *ClubStorage) Get(ctx context.Context, id string) (*entity.Club, error) {
	var club entity.Club
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&club).Error
	return &club, err
}

// Delete removes a club together with its memberships, events, registrations
// and reminder records. It is the only hard delete in the system.
func (s *ClubStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clubEvents := tx.Model(&entity.Event{}).Select("id").Where("club_id = ?", id)

		if err := tx.Where("event_id IN (?)", clubEvents).Delete(&entity.EventParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id IN (?)", clubEvents).Delete(&entity.EventNotification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", id).Delete(&entity.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", id).Delete(&entity.ClubMembership{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&entity.Club{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List returns clubs ordered by name, optionally filtered by a name search
// and an exact category.
func (s *ClubStorage) List(ctx context.Context, search, category string) ([]entity.Club, error) {
	var clubs []entity.Club
	query := s.db.WithContext(ctx).Model(&entity.Club{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("name").Find(&clubs).Error
	return clubs, err
}
