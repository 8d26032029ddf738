package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRole string

const (
	MemberRoleMember MemberRole = "member"
	MemberRoleAdmin  MemberRole = "admin"
)

// ClubMembership is unique per (user, club). It is created pending by a join
// request and decided once by a club admin.
type ClubMembership struct {
	ID        string         `gorm:"primaryKey;type:uuid"`
	UserID    string         `gorm:"not null;type:uuid;uniqueIndex:idx_membership_user_club"`
	ClubID    string         `gorm:"not null;type:uuid;uniqueIndex:idx_membership_user_club;index"`
	Role      MemberRole     `gorm:"not null;default:member"`
	Status    ApprovalStatus `gorm:"not null;default:pending;index"`
	JoinedAt  time.Time      `gorm:"autoCreateTime"`
	DecidedAt *time.Time
	DecidedBy *string `gorm:"type:uuid"`
}

func (m *ClubMembership) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *ClubMembership) IsClubAdmin() bool {
	return m.Role == MemberRoleAdmin && m.Status == StatusApproved
}
