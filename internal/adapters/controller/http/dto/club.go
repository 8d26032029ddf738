package dto

import (
	"time"

	domain "github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
)

type CreateClubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ClubResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	MemberCount int64     `json:"member_count"`
	EventCount  int64     `json:"event_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToClubResponse(c domain.Club) ClubResponse {
	return ClubResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		MemberCount: c.MemberCount,
		EventCount:  c.EventCount,
		CreatedAt:   c.CreatedAt,
	}
}

func ToClubResponses(clubs []domain.Club) []ClubResponse {
	result := make([]ClubResponse, 0, len(clubs))
	for _, club := range clubs {
		result = append(result, ToClubResponse(club))
	}
	return result
}

// ToBriefClubResponses renders clubs without counts.
func ToBriefClubResponses(clubs []entity.Club) []ClubResponse {
	result := make([]ClubResponse, 0, len(clubs))
	for _, club := range clubs {
		result = append(result, ToClubResponse(domain.Club{Club: club}))
	}
	return result
}

type MembershipResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ClubID    string     `json:"club_id"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	JoinedAt  time.Time  `json:"joined_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

func ToMembershipResponse(m *entity.ClubMembership) *MembershipResponse {
	return &MembershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		ClubID:    m.ClubID,
		Role:      string(m.Role),
		Status:    string(m.Status),
		JoinedAt:  m.JoinedAt,
		DecidedAt: m.DecidedAt,
	}
}

type MemberResponse struct {
	MembershipID string    `json:"membership_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	JoinedAt     time.Time `json:"joined_at"`
}

func ToMemberResponses(members []domain.ClubMember) []MemberResponse {
	result := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		result = append(result, MemberResponse{
			MembershipID: m.MembershipID,
			UserID:       m.UserID,
			Name:         m.Name,
			Email:        m.Email,
			Role:         string(m.Role),
			Status:       string(m.Status),
			JoinedAt:     m.JoinedAt,
		})
	}
	return result
}

type DecisionRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

type ClubAdminRequest struct {
	UserID string `json:"user_id" binding:"required"`
}
