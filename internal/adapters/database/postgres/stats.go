package postgres

import (
	"context"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"gorm.io/gorm"
)

// StatsStorage computes the read side aggregations with grouped queries so
// callers never count rows in application code.
type StatsStorage struct {
	db *gorm.DB
}

func NewStatsStorage(db *gorm.DB) *StatsStorage {
	return &StatsStorage{
		db: db,
	}
}

type countRow struct {
	ID    string
	Count int64
}

func toCountMap(rows []countRow) map[string]int64 {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts
}

// RegistrationCounts returns the number of participants per event. Events
// without participants are absent from the map.
func (s *StatsStorage) RegistrationCounts(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	if len(eventIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := s.db.WithContext(ctx).
		Model(&entity.EventParticipant{}).
		Select("event_id AS id, COUNT(*) AS count").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error
	return toCountMap(rows), err
}

// MemberCounts returns the number of approved members per club.
func (s *StatsStorage) MemberCounts(ctx context.Context, clubIDs []string) (map[string]int64, error) {
	if len(clubIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := s.db.WithContext(ctx).
		Model(&entity.ClubMembership{}).
		Select("club_id AS id, COUNT(*) AS count").
		Where("club_id IN ? AND status = ?", clubIDs, entity.StatusApproved).
		Group("club_id").
		Scan(&rows).Error
	return toCountMap(rows), err
}

func (s *StatsStorage) EventCounts(ctx context.Context, clubIDs []string) (map[string]int64, error) {
	if len(clubIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := s.db.WithContext(ctx).
		Model(&entity.Event{}).
		Select("club_id AS id, COUNT(*) AS count").
		Where("club_id IN ?", clubIDs).
		Group("club_id").
		Scan(&rows).Error
	return toCountMap(rows), err
}

func (s *StatsStorage) Overview(ctx context.Context) (*dto.AdminOverview, error) {
	var overview dto.AdminOverview
	err := s.db.WithContext(ctx).Raw(`SELECT
		(SELECT COUNT(*) FROM users) AS users,
		(SELECT COUNT(*) FROM clubs) AS clubs,
		(SELECT COUNT(*) FROM events) AS events,
		(SELECT COUNT(*) FROM events WHERE status = ?) AS pending_events,
		(SELECT COUNT(*) FROM club_memberships WHERE status = ?) AS pending_memberships`,
		entity.StatusPending, entity.StatusPending,
	).Scan(&overview).Error
	return &overview, err
}

// ClubStats returns member and event counts of every club ordered by name.
func (s *StatsStorage) ClubStats(ctx context.Context) ([]dto.ClubStats, error) {
	var stats []dto.ClubStats
	err := s.db.WithContext(ctx).Raw(`SELECT clubs.id AS club_id, clubs.name,
		COALESCE(members.count, 0) AS member_count,
		COALESCE(events.count, 0) AS event_count
		FROM clubs
		LEFT JOIN (SELECT club_id, COUNT(*) AS count FROM club_memberships WHERE status = ? GROUP BY club_id) members
			ON members.club_id = clubs.id
		LEFT JOIN (SELECT club_id, COUNT(*) AS count FROM events GROUP BY club_id) events
			ON events.club_id = clubs.id
		ORDER BY clubs.name`,
		entity.StatusApproved,
	).Scan(&stats).Error
	return stats, err
}

// ClubSummaries returns the club admin dashboard row of every given club.
// Upcoming events are the ones starting at or after now that are not rejected.
func (s *StatsStorage) ClubSummaries(ctx context.Context, clubIDs []string, now time.Time) ([]dto.ClubSummary, error) {
	var summaries []dto.ClubSummary
	if len(clubIDs) == 0 {
		return summaries, nil
	}
	err := s.db.WithContext(ctx).Raw(`SELECT clubs.id AS club_id, clubs.name,
		(SELECT COUNT(*) FROM events WHERE events.club_id = clubs.id AND events.starts_at >= ? AND events.status <> ?) AS upcoming_events,
		(SELECT COUNT(*) FROM club_memberships WHERE club_memberships.club_id = clubs.id AND club_memberships.status = ?) AS members,
		(SELECT COUNT(*) FROM club_memberships WHERE club_memberships.club_id = clubs.id AND club_memberships.status = ?) AS pending_requests,
		(SELECT COUNT(*) FROM event_participants JOIN events ON events.id = event_participants.event_id WHERE events.club_id = clubs.id) AS registrations
		FROM clubs
		WHERE clubs.id IN ?
		ORDER BY clubs.name`,
		now, entity.StatusRejected, entity.StatusApproved, entity.StatusPending, clubIDs,
	).Scan(&summaries).Error
	return summaries, err
}

// UserCounts returns the number of clubs the user is an approved member of
// and the number of the user's registrations.
func (s *StatsStorage) UserCounts(ctx context.Context, userID string) (clubs int64, registrations int64, err error) {
	var row struct {
		Clubs         int64
		Registrations int64
	}
	err = s.db.WithContext(ctx).Raw(`SELECT
		(SELECT COUNT(*) FROM club_memberships WHERE user_id = ? AND status = ?) AS clubs,
		(SELECT COUNT(*) FROM event_participants WHERE user_id = ?) AS registrations`,
		userID, entity.StatusApproved, userID,
	).Scan(&row).Error
	return row.Clubs, row.Registrations, err
}

// UpcomingCount counts events that are not rejected and start at or after now
// in the clubs where the user is an approved member.
func (s *StatsStorage) UpcomingCount(ctx context.Context, userID string, now time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.Event{}).
		Joins("JOIN club_memberships ON club_memberships.club_id = events.club_id").
		Where("club_memberships.user_id = ? AND club_memberships.status = ?", userID, entity.StatusApproved).
		Where("events.starts_at >= ? AND events.status <> ?", now, entity.StatusRejected).
		Count(&count).Error
	return count, err
}
