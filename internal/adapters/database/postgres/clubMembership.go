package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"gorm.io/gorm"
)

const clubMemberColumns = "club_memberships.id AS membership_id, club_memberships.club_id, club_memberships.user_id, " +
	"users.name, users.email, users.telegram_id, club_memberships.role, club_memberships.status, club_memberships.joined_at"

type ClubMembershipStorage struct {
	db *gorm.DB
}

func NewClubMembershipStorage(db *gorm.DB) *ClubMembershipStorage {
	return &ClubMembershipStorage{
		db: db,
	}
}

func (s *ClubMembershipStorage) Create(ctx context.Context, membership *entity.ClubMembership) (*entity.ClubMembership, error) {
	err := s.db.WithContext(ctx).Create(membership).Error
	return membership, err
}

func (s *ClubMembershipStorage) Get(ctx context.Context, id string) (*entity.ClubMembership, error) {
	var membership entity.ClubMembership
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&membership).Error
	return &membership, err
}

func (s *ClubMembershipStorage) GetByUserAndClub(ctx context.Context, userID, clubID string) (*entity.ClubMembership, error) {
	var membership entity.ClubMembership
	err := s.db.WithContext(ctx).Where("user_id = ? AND club_id = ?", userID, clubID).First(&membership).Error
	return &membership, err
}

// UpdateStatus moves a pending membership to status. It returns the number of
// updated rows, which is zero when the membership is no longer pending.
func (s *ClubMembershipStorage) UpdateStatus(ctx context.Context, id string, status entity.ApprovalStatus, decidedBy string, decidedAt time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&entity.ClubMembership{}).
		Where("id = ? AND status = ?", id, entity.StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	return res.RowsAffected, res.Error
}

// SetAdmin makes userID an approved admin of clubID, creating the membership
// when it does not exist yet.
func (s *ClubMembershipStorage) SetAdmin(ctx context.Context, userID, clubID, decidedBy string, decidedAt time.Time) (*entity.ClubMembership, error) {
	var membership entity.ClubMembership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND club_id = ?", userID, clubID).First(&membership).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			membership = entity.ClubMembership{UserID: userID, ClubID: clubID}
		default:
			return err
		}

		membership.Role = entity.MemberRoleAdmin
		membership.Status = entity.StatusApproved
		membership.DecidedBy = &decidedBy
		membership.DecidedAt = &decidedAt
		return tx.Save(&membership).Error
	})
	return &membership, err
}

func (s *ClubMembershipStorage) SetRole(ctx context.Context, userID, clubID string, role entity.MemberRole) error {
	res := s.db.WithContext(ctx).
		Model(&entity.ClubMembership{}).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByClubID returns memberships of a club joined with user data, newest
// first. Empty status means any status, search matches name or email.
func (s *ClubMembershipStorage) GetByClubID(ctx context.Context, clubID string, status entity.ApprovalStatus, search string) ([]dto.ClubMember, error) {
	var result []dto.ClubMember
	query := s.db.WithContext(ctx).
		Table("club_memberships").
		Select(clubMemberColumns).
		Joins("JOIN users ON users.id = club_memberships.user_id").
		Where("club_memberships.club_id = ?", clubID)
	if status != "" {
		query = query.Where("club_memberships.status = ?", status)
	}
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ?", like, like)
	}
	err := query.Order("club_memberships.joined_at DESC").Scan(&result).Error
	return result, err
}

func (s *ClubMembershipStorage) GetAdmins(ctx context.Context, clubID string) ([]dto.ClubMember, error) {
	var result []dto.ClubMember
	err := s.db.WithContext(ctx).
		Table("club_memberships").
		Select(clubMemberColumns).
		Joins("JOIN users ON users.id = club_memberships.user_id").
		Where("club_memberships.club_id = ? AND club_memberships.role = ? AND club_memberships.status = ?",
			clubID, entity.MemberRoleAdmin, entity.StatusApproved).
		Scan(&result).Error
	return result, err
}

// GetUserClubs returns the clubs where the user is an approved member.
func (s *ClubMembershipStorage) GetUserClubs(ctx context.Context, userID string) ([]entity.Club, error) {
	var clubs []entity.Club
	err := s.db.WithContext(ctx).
		Joins("JOIN club_memberships ON club_memberships.club_id = clubs.id").
		Where("club_memberships.user_id = ? AND club_memberships.status = ?", userID, entity.StatusApproved).
		Order("clubs.name").
		Find(&clubs).Error
	return clubs, err
}

func (s *ClubMembershipStorage) IsClubAdmin(ctx context.Context, userID, clubID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.ClubMembership{}).
		Where("user_id = ? AND club_id = ? AND role = ? AND status = ?", userID, clubID, entity.MemberRoleAdmin, entity.StatusApproved).
		Count(&count).Error
	return count > 0, err
}

// GetAdministeredClubIDs returns ids of the clubs the user administers.
func (s *ClubMembershipStorage) GetAdministeredClubIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&entity.ClubMembership{}).
		Where("user_id = ? AND role = ? AND status = ?", userID, entity.MemberRoleAdmin, entity.StatusApproved).
		Pluck("club_id", &ids).Error
	return ids, err
}
