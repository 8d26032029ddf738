package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/utils/validator"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	"gorm.io/gorm"
)

type UserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error)
	UpdateProfile(ctx context.Context, id, name, bio string) error
	UpdateRole(ctx context.Context, id string, role entity.Role) error
	List(ctx context.Context, search string, offset, limit int) ([]entity.User, error)
}

type userMembershipStorage interface {
	GetAdministeredClubIDs(ctx context.Context, userID string) ([]string, error)
}

type UserService struct {
	logger      *types.Logger
	storage     UserStorage
	memberships userMembershipStorage
	policy      *Policy
}

func NewUserService(logger *types.Logger, storage UserStorage, memberships userMembershipStorage, policy *Policy) *UserService {
	return &UserService{
		logger:      logger,
		storage:     storage,
		memberships: memberships,
		policy:      policy,
	}
}

func (s *UserService) Me(ctx context.Context, actor entity.Actor) (*entity.User, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	user, err := s.storage.Get(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor entity.Actor, name, bio string) (*entity.User, error) {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	var fields []string
	if !validator.UserName(name) {
		fields = append(fields, "name")
	}
	if !validator.Bio(bio) {
		fields = append(fields, "bio")
	}
	if err = errorz.Validation(fields...); err != nil {
		return nil, err
	}

	if err = s.storage.UpdateProfile(ctx, user.ID, name, bio); err != nil {
		return nil, notFound(err, "user")
	}
	return s.Me(ctx, actor)
}

// GetByTelegramID returns the user that linked the Telegram chat.
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error) {
	user, err := s.storage.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// ListUsers returns users newest first, filtered by name or email.
func (s *UserService) ListUsers(ctx context.Context, actor entity.Actor, search string, offset, limit int) ([]entity.User, error) {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	return s.storage.List(ctx, search, offset, limit)
}

// ChangeRole sets the site role of a user. Admins cannot demote themselves,
// so the last admin is never locked out by accident. A user who administers
// a club cannot become a plain user, and club_admin requires at least one
// administered club; appointments are changed with AppointAdmin and
// RemoveAdmin.
func (s *UserService) ChangeRole(ctx context.Context, actor entity.Actor, userID string, role entity.Role) error {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return err
	}
	if !role.Valid() {
		return errorz.Validation("role")
	}
	if userID == actor.UserID && role != entity.RoleAdmin {
		return errorz.ErrForbidden
	}
	if role != entity.RoleAdmin {
		clubIDs, err := s.memberships.GetAdministeredClubIDs(ctx, userID)
		if err != nil {
			return fmt.Errorf("get administered clubs: %w", err)
		}
		if (role == entity.RoleUser) != (len(clubIDs) == 0) {
			return errorz.ErrRoleMismatch
		}
	}

	if err := s.storage.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user: %w", errorz.ErrNotFound)
		}
		return fmt.Errorf("update role: %w", err)
	}

	s.logger.Infof("Role changed (user_id=%s, role=%s, by=%s)", userID, role, actor.UserID)
	return nil
}
