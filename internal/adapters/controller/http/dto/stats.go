package dto

import domain "github.com/Badsnus/campus-events/internal/domain/dto"

type UserDashboardResponse struct {
	UpcomingEvents    []EventResponse `json:"upcoming_events"`
	UpcomingCount     int64           `json:"upcoming_count"`
	ClubCount         int64           `json:"club_count"`
	RegistrationCount int64           `json:"registration_count"`
}

func ToUserDashboardResponse(d *domain.UserDashboard) *UserDashboardResponse {
	return &UserDashboardResponse{
		UpcomingEvents:    ToEventResponses(d.UpcomingEvents),
		UpcomingCount:     d.UpcomingCount,
		ClubCount:         d.ClubCount,
		RegistrationCount: d.RegistrationCount,
	}
}

type ClubSummaryResponse struct {
	ClubID          string `json:"club_id"`
	Name            string `json:"name"`
	UpcomingEvents  int64  `json:"upcoming_events"`
	Members         int64  `json:"members"`
	PendingRequests int64  `json:"pending_requests"`
	Registrations   int64  `json:"registrations"`
}

type ClubDashboardResponse struct {
	Clubs           []ClubSummaryResponse `json:"clubs"`
	UpcomingEvents  int64                 `json:"upcoming_events"`
	TotalMembers    int64                 `json:"total_members"`
	PendingRequests int64                 `json:"pending_requests"`
	Registrations   int64                 `json:"registrations"`
}

func ToClubDashboardResponse(d *domain.ClubDashboard) *ClubDashboardResponse {
	clubs := make([]ClubSummaryResponse, 0, len(d.Clubs))
	for _, c := range d.Clubs {
		clubs = append(clubs, ClubSummaryResponse(c))
	}
	return &ClubDashboardResponse{
		Clubs:           clubs,
		UpcomingEvents:  d.UpcomingEvents,
		TotalMembers:    d.TotalMembers,
		PendingRequests: d.PendingRequests,
		Registrations:   d.Registrations,
	}
}

type AdminOverviewResponse struct {
	Users              int64 `json:"users"`
	Clubs              int64 `json:"clubs"`
	Events             int64 `json:"events"`
	PendingEvents      int64 `json:"pending_events"`
	PendingMemberships int64 `json:"pending_memberships"`
}

type ClubStatsResponse struct {
	ClubID      string `json:"club_id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
	EventCount  int64  `json:"event_count"`
}

func ToClubStatsResponses(stats []domain.ClubStats) []ClubStatsResponse {
	result := make([]ClubStatsResponse, 0, len(stats))
	for _, s := range stats {
		result = append(result, ClubStatsResponse(s))
	}
	return result
}
