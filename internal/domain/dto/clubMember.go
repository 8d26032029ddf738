package dto

import (
	"time"

	"github.com/Badsnus/campus-events/internal/domain/entity"
)

type ClubMember struct {
	MembershipID string
	ClubID       string
	UserID       string
	Name         string
	Email        string
	TelegramID   *int64
	Role         entity.MemberRole
	Status       entity.ApprovalStatus
	JoinedAt     time.Time
}
