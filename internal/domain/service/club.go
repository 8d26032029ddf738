package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/utils/validator"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	"gorm.io/gorm"
)

type ClubStorage interface {
	Create(ctx context.Context, club *entity.Club) (*entity.Club, error)
	Get(ctx context.Context, id string) (*entity.Club, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search, category string) ([]entity.Club, error)
}

type clubStatsStorage interface {
	MemberCounts(ctx context.Context, clubIDs []string) (map[string]int64, error)
	EventCounts(ctx context.Context, clubIDs []string) (map[string]int64, error)
}

type ClubService struct {
	logger       *types.Logger
	storage      ClubStorage
	statsStorage clubStatsStorage
	policy       *Policy
}

func NewClubService(logger *types.Logger, storage ClubStorage, statsStorage clubStatsStorage, policy *Policy) *ClubService {
	return &ClubService{
		logger:       logger,
		storage:      storage,
		statsStorage: statsStorage,
		policy:       policy,
	}
}

func (s *ClubService) Create(ctx context.Context, actor entity.Actor, name, description, category string) (*entity.Club, error) {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	var fields []string
	if !validator.ClubName(name) {
		fields = append(fields, "name")
	}
	if !validator.ClubDescription(description) {
		fields = append(fields, "description")
	}
	if !validator.ClubCategory(category) {
		fields = append(fields, "category")
	}
	if err := errorz.Validation(fields...); err != nil {
		return nil, err
	}

	club, err := s.storage.Create(ctx, &entity.Club{
		Name:        name,
		Description: description,
		Category:    category,
		CreatedBy:   actor.UserID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorz.ErrClubExists
		}
		return nil, fmt.Errorf("create club: %w", err)
	}

	s.logger.Infof("Club created (club_id=%s, by=%s)", club.ID, actor.UserID)
	return club, nil
}

// Delete removes the club with everything that belongs to it.
func (s *ClubService) Delete(ctx context.Context, actor entity.Actor, clubID string) error {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, clubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("club: %w", errorz.ErrNotFound)
		}
		return fmt.Errorf("delete club: %w", err)
	}
	s.logger.Infof("Club deleted (club_id=%s, by=%s)", clubID, actor.UserID)
	return nil
}

func (s *ClubService) Get(ctx context.Context, clubID string) (*dto.Club, error) {
	club, err := s.storage.Get(ctx, clubID)
	if err != nil {
		return nil, notFound(err, "club")
	}
	clubs, err := s.withCounts(ctx, []entity.Club{*club})
	if err != nil {
		return nil, err
	}
	return &clubs[0], nil
}

func (s *ClubService) List(ctx context.Context, search, category string) ([]dto.Club, error) {
	clubs, err := s.storage.List(ctx, search, category)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return s.withCounts(ctx, clubs)
}

func (s *ClubService) withCounts(ctx context.Context, clubs []entity.Club) ([]dto.Club, error) {
	ids := make([]string, 0, len(clubs))
	for _, club := range clubs {
		ids = append(ids, club.ID)
	}
	members, err := s.statsStorage.MemberCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	events, err := s.statsStorage.EventCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	result := make([]dto.Club, 0, len(clubs))
	for _, club := range clubs {
		result = append(result, dto.Club{
			Club:        club,
			MemberCount: members[club.ID],
			EventCount:  events[club.ID],
		})
	}
	return result, nil
}
