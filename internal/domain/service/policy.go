package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"gorm.io/gorm"
)

type policyMembershipStorage interface {
	IsClubAdmin(ctx context.Context, userID, clubID string) (bool, error)
}

// Policy holds the authorization rules checked before every mutation.
type Policy struct {
	memberships policyMembershipStorage
}

func NewPolicy(memberships policyMembershipStorage) *Policy {
	return &Policy{
		memberships: memberships,
	}
}

func (p *Policy) RequireAuthenticated(actor entity.Actor) error {
	if !actor.IsAuthenticated() {
		return errorz.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin allows site admins only.
func (p *Policy) RequireAdmin(actor entity.Actor) error {
	if err := p.RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return errorz.ErrForbidden
	}
	return nil
}

// RequireClubAdmin allows site admins and approved admins of the club.
func (p *Policy) RequireClubAdmin(ctx context.Context, actor entity.Actor, clubID string) error {
	if err := p.RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}
	ok, err := p.memberships.IsClubAdmin(ctx, actor.UserID, clubID)
	if err != nil {
		return fmt.Errorf("check club admin: %w", err)
	}
	if !ok {
		return errorz.ErrForbidden
	}
	return nil
}

// notFound translates a missing record into errorz.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, errorz.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
