package dto

import "github.com/Badsnus/campus-events/internal/domain/entity"

type Club struct {
	entity.Club
	MemberCount int64
	EventCount  int64
}

// ClubStats is one row of the admin club statistics table.
type ClubStats struct {
	ClubID      string
	Name        string
	MemberCount int64
	EventCount  int64
}
