package postgres

import "github.com/Badsnus/campus-events/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.User{},
	&entity.Club{},
	&entity.ClubMembership{},
	&entity.Event{},
	&entity.EventParticipant{},
	&entity.EventNotification{},
}
