package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	"gorm.io/gorm"
)

type ClubMembershipStorage interface {
	Create(ctx context.Context, membership *entity.ClubMembership) (*entity.ClubMembership, error)
	Get(ctx context.Context, id string) (*entity.ClubMembership, error)
	GetByUserAndClub(ctx context.Context, userID, clubID string) (*entity.ClubMembership, error)
	UpdateStatus(ctx context.Context, id string, status entity.ApprovalStatus, decidedBy string, decidedAt time.Time) (int64, error)
	SetAdmin(ctx context.Context, userID, clubID, decidedBy string, decidedAt time.Time) (*entity.ClubMembership, error)
	SetRole(ctx context.Context, userID, clubID string, role entity.MemberRole) error
	GetByClubID(ctx context.Context, clubID string, status entity.ApprovalStatus, search string) ([]dto.ClubMember, error)
	GetUserClubs(ctx context.Context, userID string) ([]entity.Club, error)
	GetAdministeredClubIDs(ctx context.Context, userID string) ([]string, error)
}

type membershipClubStorage interface {
	Get(ctx context.Context, id string) (*entity.Club, error)
}

type membershipUserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.Role) error
}

type membershipNotifier interface {
	MembershipRequested(club entity.Club, requesterID string)
	MembershipDecided(club entity.Club, membership entity.ClubMembership)
}

type ClubMembershipService struct {
	logger *types.Logger

	storage     ClubMembershipStorage
	clubStorage membershipClubStorage
	userStorage membershipUserStorage
	policy      *Policy
	notifier    membershipNotifier
}

func NewClubMembershipService(
	logger *types.Logger,
	storage ClubMembershipStorage,
	clubStorage membershipClubStorage,
	userStorage membershipUserStorage,
	policy *Policy,
	notifier membershipNotifier,
) *ClubMembershipService {
	return &ClubMembershipService{
		logger:      logger,
		storage:     storage,
		clubStorage: clubStorage,
		userStorage: userStorage,
		policy:      policy,
		notifier:    notifier,
	}
}

// RequestJoin creates a pending membership of the actor in the club. A user
// has at most one membership per club: a pending or approved one makes the
// request fail with ErrAlreadyMember, a rejected one with
// ErrMembershipRejected.
func (s *ClubMembershipService) RequestJoin(ctx context.Context, actor entity.Actor, clubID string) (*entity.ClubMembership, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	club, err := s.clubStorage.Get(ctx, clubID)
	if err != nil {
		return nil, notFound(err, "club")
	}

	existing, err := s.storage.GetByUserAndClub(ctx, actor.UserID, clubID)
	switch {
	case err == nil:
		if existing.Status == entity.StatusRejected {
			return nil, errorz.ErrMembershipRejected
		}
		return nil, errorz.ErrAlreadyMember
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("get membership: %w", err)
	}

	membership, err := s.storage.Create(ctx, &entity.ClubMembership{
		UserID: actor.UserID,
		ClubID: clubID,
		Role:   entity.MemberRoleMember,
		Status: entity.StatusPending,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorz.ErrAlreadyMember
		}
		return nil, fmt.Errorf("create membership: %w", err)
	}

	s.logger.Infof("Membership requested (membership_id=%s, user_id=%s, club_id=%s)", membership.ID, actor.UserID, clubID)
	s.notifier.MembershipRequested(*club, actor.UserID)
	return membership, nil
}

// Decide approves or rejects a pending membership. Deciding a membership again
// with the outcome it already has is a no-op, any other change of a decided
// membership fails with ErrInvalidTransition.
func (s *ClubMembershipService) Decide(ctx context.Context, actor entity.Actor, membershipID string, outcome string) (*entity.ClubMembership, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	status, ok := entity.ParseOutcome(outcome)
	if !ok {
		return nil, errorz.Validation("outcome")
	}

	membership, err := s.storage.Get(ctx, membershipID)
	if err != nil {
		return nil, notFound(err, "membership")
	}
	if err = s.policy.RequireClubAdmin(ctx, actor, membership.ClubID); err != nil {
		return nil, err
	}
	if !membership.Status.CanTransition(status) {
		return decidedMembership(membership, status)
	}

	now := time.Now().UTC()
	updated, err := s.storage.UpdateStatus(ctx, membership.ID, status, actor.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("update membership: %w", err)
	}
	if updated == 0 {
		// decided concurrently by someone else
		current, err := s.storage.Get(ctx, membership.ID)
		if err != nil {
			return nil, notFound(err, "membership")
		}
		return decidedMembership(current, status)
	}

	membership.Status = status
	membership.DecidedBy = &actor.UserID
	membership.DecidedAt = &now
	s.logger.Infof("Membership %s (membership_id=%s, by=%s)", status, membership.ID, actor.UserID)

	if club, err := s.clubStorage.Get(ctx, membership.ClubID); err == nil {
		s.notifier.MembershipDecided(*club, *membership)
	} else {
		s.logger.Errorf("failed to get club %s for notification: %v", membership.ClubID, err)
	}
	return membership, nil
}

func decidedMembership(membership *entity.ClubMembership, status entity.ApprovalStatus) (*entity.ClubMembership, error) {
	if membership.Status == status {
		return membership, nil
	}
	return nil, fmt.Errorf("membership is %s: %w", membership.Status, errorz.ErrInvalidTransition)
}

// AppointAdmin makes the user an approved admin of the club and promotes a
// plain user to club_admin.
func (s *ClubMembershipService) AppointAdmin(ctx context.Context, actor entity.Actor, clubID, userID string) (*entity.ClubMembership, error) {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.clubStorage.Get(ctx, clubID); err != nil {
		return nil, notFound(err, "club")
	}
	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	membership, err := s.storage.SetAdmin(ctx, userID, clubID, actor.UserID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("set club admin: %w", err)
	}
	if user.Role == entity.RoleUser {
		if err = s.userStorage.UpdateRole(ctx, userID, entity.RoleClubAdmin); err != nil {
			return nil, fmt.Errorf("promote user: %w", err)
		}
	}

	s.logger.Infof("Club admin appointed (club_id=%s, user_id=%s, by=%s)", clubID, userID, actor.UserID)
	return membership, nil
}

// RemoveAdmin turns a club admin back into a member. A club_admin that no
// longer administers any club becomes a plain user.
func (s *ClubMembershipService) RemoveAdmin(ctx context.Context, actor entity.Actor, clubID, userID string) error {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.storage.SetRole(ctx, userID, clubID, entity.MemberRoleMember); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("membership: %w", errorz.ErrNotFound)
		}
		return fmt.Errorf("set member role: %w", err)
	}

	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}
	clubIDs, err := s.storage.GetAdministeredClubIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("get administered clubs: %w", err)
	}
	if len(clubIDs) == 0 && user.Role == entity.RoleClubAdmin {
		if err = s.userStorage.UpdateRole(ctx, userID, entity.RoleUser); err != nil {
			return fmt.Errorf("demote user: %w", err)
		}
	}

	s.logger.Infof("Club admin removed (club_id=%s, user_id=%s, by=%s)", clubID, userID, actor.UserID)
	return nil
}

// ListPending returns the open join requests of a club.
func (s *ClubMembershipService) ListPending(ctx context.Context, actor entity.Actor, clubID string) ([]dto.ClubMember, error) {
	if err := s.policy.RequireClubAdmin(ctx, actor, clubID); err != nil {
		return nil, err
	}
	return s.storage.GetByClubID(ctx, clubID, entity.StatusPending, "")
}

// ListMembers returns the approved members of a club, newest first.
func (s *ClubMembershipService) ListMembers(ctx context.Context, clubID, search string) ([]dto.ClubMember, error) {
	if _, err := s.clubStorage.Get(ctx, clubID); err != nil {
		return nil, notFound(err, "club")
	}
	return s.storage.GetByClubID(ctx, clubID, entity.StatusApproved, search)
}

func (s *ClubMembershipService) MyClubs(ctx context.Context, actor entity.Actor) ([]entity.Club, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.storage.GetUserClubs(ctx, actor.UserID)
}

// Status returns the membership of the actor in the club, or nil when there
// is none.
func (s *ClubMembershipService) Status(ctx context.Context, actor entity.Actor, clubID string) (*entity.ClubMembership, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	membership, err := s.storage.GetByUserAndClub(ctx, actor.UserID, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return membership, nil
}

// AdministeredClubIDs returns the clubs the actor administers.
func (s *ClubMembershipService) AdministeredClubIDs(ctx context.Context, actor entity.Actor) ([]string, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.storage.GetAdministeredClubIDs(ctx, actor.UserID)
}
