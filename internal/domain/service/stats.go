package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
)

const DashboardEventsLimit = 5

type StatsStorage interface {
	Overview(ctx context.Context) (*dto.AdminOverview, error)
	ClubStats(ctx context.Context) ([]dto.ClubStats, error)
	ClubSummaries(ctx context.Context, clubIDs []string, now time.Time) ([]dto.ClubSummary, error)
	UserCounts(ctx context.Context, userID string) (clubs int64, registrations int64, err error)
	UpcomingCount(ctx context.Context, userID string, now time.Time) (int64, error)
}

type statsEventLister interface {
	ListApproved(ctx context.Context, actor entity.Actor, from time.Time, clubID string, limit int) ([]dto.Event, error)
}

// StatsService assembles the dashboards. Every number comes from a grouped
// query of the data layer.
type StatsService struct {
	storage           StatsStorage
	membershipStorage eventMembershipStorage
	events            statsEventLister
	policy            *Policy
}

func NewStatsService(storage StatsStorage, membershipStorage eventMembershipStorage, events statsEventLister, policy *Policy) *StatsService {
	return &StatsService{
		storage:           storage,
		membershipStorage: membershipStorage,
		events:            events,
		policy:            policy,
	}
}

func (s *StatsService) UserDashboard(ctx context.Context, actor entity.Actor) (*dto.UserDashboard, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	now := time.Now()

	upcoming, err := s.events.ListApproved(ctx, actor, now, "", DashboardEventsLimit)
	if err != nil {
		return nil, err
	}
	upcomingCount, err := s.storage.UpcomingCount(ctx, actor.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("count upcoming events: %w", err)
	}
	clubs, registrations, err := s.storage.UserCounts(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("count user activity: %w", err)
	}

	return &dto.UserDashboard{
		UpcomingEvents:    upcoming,
		UpcomingCount:     upcomingCount,
		ClubCount:         clubs,
		RegistrationCount: registrations,
	}, nil
}

// ClubDashboard summarises the clubs the actor administers.
func (s *StatsService) ClubDashboard(ctx context.Context, actor entity.Actor) (*dto.ClubDashboard, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	clubIDs, err := s.membershipStorage.GetAdministeredClubIDs(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get administered clubs: %w", err)
	}
	if len(clubIDs) == 0 && !actor.IsAdmin() {
		return nil, errorz.ErrForbidden
	}

	summaries, err := s.storage.ClubSummaries(ctx, clubIDs, time.Now())
	if err != nil {
		return nil, fmt.Errorf("summarise clubs: %w", err)
	}

	dashboard := &dto.ClubDashboard{Clubs: summaries}
	for _, summary := range summaries {
		dashboard.UpcomingEvents += summary.UpcomingEvents
		dashboard.TotalMembers += summary.Members
		dashboard.PendingRequests += summary.PendingRequests
		dashboard.Registrations += summary.Registrations
	}
	return dashboard, nil
}

func (s *StatsService) AdminOverview(ctx context.Context, actor entity.Actor) (*dto.AdminOverview, error) {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.storage.Overview(ctx)
}

func (s *StatsService) ClubStats(ctx context.Context, actor entity.Actor) ([]dto.ClubStats, error) {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.storage.ClubStats(ctx)
}
