package dto

type UserDashboard struct {
	UpcomingEvents    []Event
	UpcomingCount     int64
	ClubCount         int64
	RegistrationCount int64
}

type ClubSummary struct {
	ClubID          string
	Name            string
	UpcomingEvents  int64
	Members         int64
	PendingRequests int64
	Registrations   int64
}

type ClubDashboard struct {
	Clubs           []ClubSummary
	UpcomingEvents  int64
	TotalMembers    int64
	PendingRequests int64
	Registrations   int64
}

type AdminOverview struct {
	Users              int64
	Clubs              int64
	Events             int64
	PendingEvents      int64
	PendingMemberships int64
}
