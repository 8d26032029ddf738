package postgres_test

import (
	"context"
	"errors"
	"time"

	"github.com/Badsnus/campus-events/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var errFull = errors.New("full")

var _ = Describe("Storages", func() {
	var (
		ctx           context.Context
		db            *gorm.DB
		users         *postgres.UserStorage
		clubs         *postgres.ClubStorage
		memberships   *postgres.ClubMembershipStorage
		events        *postgres.EventStorage
		participants  *postgres.EventParticipantStorage
		notifications *postgres.NotificationStorage
		now           time.Time
	)

	createUser := func(name, email string) *entity.User {
		user, err := users.Create(ctx, &entity.User{Name: name, Email: email, PasswordHash: "hash"})
		Expect(err).NotTo(HaveOccurred())
		return user
	}

	createClub := func(name string, creator *entity.User) *entity.Club {
		club, err := clubs.Create(ctx, &entity.Club{Name: name, Category: "tech", CreatedBy: creator.ID})
		Expect(err).NotTo(HaveOccurred())
		return club
	}

	createEvent := func(club *entity.Club, submitter *entity.User, startsAt time.Time, status entity.ApprovalStatus) *entity.Event {
		event, err := events.Create(ctx, &entity.Event{
			ClubID:      club.ID,
			Title:       "Meetup",
			Description: "Talks",
			Location:    "Hall A",
			StartsAt:    startsAt,
			Capacity:    2,
			Status:      status,
			SubmittedBy: submitter.ID,
		})
		Expect(err).NotTo(HaveOccurred())
		return event
	}

	allow := func(_ *entity.Event, _ int64) error { return nil }

	BeforeEach(func() {
		ctx = context.Background()
		db = newTestDB()
		users = postgres.NewUserStorage(db)
		clubs = postgres.NewClubStorage(db)
		memberships = postgres.NewClubMembershipStorage(db)
		events = postgres.NewEventStorage(db)
		participants = postgres.NewEventParticipantStorage(db)
		notifications = postgres.NewNotificationStorage(db)
		now = time.Now().UTC()
	})

	Describe("UserStorage", func() {
		It("rejects a duplicate email", func() {
			createUser("Ann", "ann@campus.edu")

			_, err := users.Create(ctx, &entity.User{Name: "Other", Email: "ann@campus.edu", PasswordHash: "hash"})
			Expect(err).To(MatchError(gorm.ErrDuplicatedKey))
		})

		It("defaults the role and searches case-insensitively", func() {
			ann := createUser("Ann Smith", "ann@campus.edu")
			createUser("Bob", "bob@campus.edu")
			Expect(ann.Role).To(Equal(entity.RoleUser))

			found, err := users.List(ctx, "SMITH", 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].ID).To(Equal(ann.ID))
		})

		It("reports a missing user on role update", func() {
			Expect(users.UpdateRole(ctx, "missing", entity.RoleAdmin)).To(MatchError(gorm.ErrRecordNotFound))
			Expect(users.UpdateProfile(ctx, "missing", "Ann", "")).To(MatchError(gorm.ErrRecordNotFound))
		})

		It("writes single columns without touching the role", func() {
			ann := createUser("Ann", "ann@campus.edu")
			Expect(users.UpdateRole(ctx, ann.ID, entity.RoleAdmin)).To(Succeed())

			stale, err := users.Get(ctx, ann.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(users.UpdateRole(ctx, ann.ID, entity.RoleUser)).To(Succeed())

			Expect(users.UpdateProfile(ctx, stale.ID, "Ann Lee", "Chess")).To(Succeed())
			Expect(users.UpdatePassword(ctx, stale.ID, "new hash")).To(Succeed())
			Expect(users.UpdateTelegramID(ctx, stale.ID, 4242)).To(Succeed())

			stored, err := users.Get(ctx, ann.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Role).To(Equal(entity.RoleUser))
			Expect(stored.Name).To(Equal("Ann Lee"))
			Expect(stored.Bio).To(Equal("Chess"))
			Expect(stored.PasswordHash).To(Equal("new hash"))
			Expect(*stored.TelegramID).To(BeEquivalentTo(4242))
		})

		It("keeps a Telegram chat on one user", func() {
			ann := createUser("Ann", "ann@campus.edu")
			bob := createUser("Bob", "bob@campus.edu")
			Expect(users.UpdateTelegramID(ctx, ann.ID, 4242)).To(Succeed())

			Expect(users.UpdateTelegramID(ctx, bob.ID, 4242)).To(MatchError(gorm.ErrDuplicatedKey))
		})
	})

	Describe("ClubMembershipStorage", func() {
		var (
			admin  *entity.User
			member *entity.User
			club   *entity.Club
		)

		BeforeEach(func() {
			admin = createUser("Admin", "admin@campus.edu")
			member = createUser("Member", "member@campus.edu")
			club = createClub("Robotics", admin)
		})

		It("keeps one membership per user and club", func() {
			_, err := memberships.Create(ctx, &entity.ClubMembership{UserID: member.ID, ClubID: club.ID})
			Expect(err).NotTo(HaveOccurred())

			_, err = memberships.Create(ctx, &entity.ClubMembership{UserID: member.ID, ClubID: club.ID})
			Expect(err).To(MatchError(gorm.ErrDuplicatedKey))
		})

		It("decides a pending membership only once", func() {
			membership, err := memberships.Create(ctx, &entity.ClubMembership{UserID: member.ID, ClubID: club.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(membership.Status).To(Equal(entity.StatusPending))
			Expect(membership.Role).To(Equal(entity.MemberRoleMember))

			updated, err := memberships.UpdateStatus(ctx, membership.ID, entity.StatusApproved, admin.ID, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(Equal(int64(1)))

			updated, err = memberships.UpdateStatus(ctx, membership.ID, entity.StatusRejected, admin.ID, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(BeZero())

			stored, err := memberships.Get(ctx, membership.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(entity.StatusApproved))
		})

		It("lists approved members and the clubs of a user", func() {
			membership, err := memberships.Create(ctx, &entity.ClubMembership{UserID: member.ID, ClubID: club.ID})
			Expect(err).NotTo(HaveOccurred())
			_, err = memberships.UpdateStatus(ctx, membership.ID, entity.StatusApproved, admin.ID, now)
			Expect(err).NotTo(HaveOccurred())

			members, err := memberships.GetByClubID(ctx, club.ID, entity.StatusApproved, "MEMB")
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(HaveLen(1))
			Expect(members[0].Email).To(Equal("member@campus.edu"))

			userClubs, err := memberships.GetUserClubs(ctx, member.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(userClubs).To(HaveLen(1))
			Expect(userClubs[0].ID).To(Equal(club.ID))
		})

		It("appoints an admin by upserting the membership", func() {
			_, err := memberships.SetAdmin(ctx, admin.ID, club.ID, admin.ID, now)
			Expect(err).NotTo(HaveOccurred())

			isAdmin, err := memberships.IsClubAdmin(ctx, admin.ID, club.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(isAdmin).To(BeTrue())

			ids, err := memberships.GetAdministeredClubIDs(ctx, admin.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf(club.ID))

			Expect(memberships.SetRole(ctx, admin.ID, club.ID, entity.MemberRoleMember)).To(Succeed())
			isAdmin, err = memberships.IsClubAdmin(ctx, admin.ID, club.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(isAdmin).To(BeFalse())
		})
	})

	Describe("EventStorage", func() {
		It("changes only the addressed event", func() {
			admin := createUser("Admin", "admin@campus.edu")
			club := createClub("Chess", admin)
			first := createEvent(club, admin, now.Add(48*time.Hour), entity.StatusPending)
			second := createEvent(club, admin, now.Add(72*time.Hour), entity.StatusPending)

			updated, err := events.UpdateStatus(ctx, first.ID, entity.StatusApproved, admin.ID, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(Equal(int64(1)))

			stored, err := events.Get(ctx, second.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(entity.StatusPending))

			approved, err := events.GetApproved(ctx, now, nil, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(approved).To(HaveLen(1))
			Expect(approved[0].ID).To(Equal(first.ID))
		})

		It("finds approved events in a time window", func() {
			admin := createUser("Admin", "admin@campus.edu")
			club := createClub("Chess", admin)
			soon := createEvent(club, admin, now.Add(30*time.Minute), entity.StatusApproved)
			createEvent(club, admin, now.Add(45*time.Minute), entity.StatusPending)
			createEvent(club, admin, now.Add(5*time.Hour), entity.StatusApproved)

			found, err := events.GetUpcomingEvents(ctx, now, now.Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].ID).To(Equal(soon.ID))
		})
	})

	Describe("EventParticipantStorage", func() {
		var (
			admin *entity.User
			event *entity.Event
		)

		BeforeEach(func() {
			admin = createUser("Admin", "admin@campus.edu")
			club := createClub("Chess", admin)
			event = createEvent(club, admin, now.Add(48*time.Hour), entity.StatusApproved)
		})

		It("registers a participant with a ticket code", func() {
			participant, err := participants.Register(ctx, &entity.EventParticipant{EventID: event.ID, UserID: admin.ID}, allow)
			Expect(err).NotTo(HaveOccurred())
			Expect(participant.TicketCode).NotTo(BeEmpty())

			byTicket, err := participants.GetByTicket(ctx, event.ID, participant.TicketCode)
			Expect(err).NotTo(HaveOccurred())
			Expect(byTicket.UserID).To(Equal(admin.ID))
		})

		It("rejects a second registration of the same user", func() {
			_, err := participants.Register(ctx, &entity.EventParticipant{EventID: event.ID, UserID: admin.ID}, allow)
			Expect(err).NotTo(HaveOccurred())

			_, err = participants.Register(ctx, &entity.EventParticipant{EventID: event.ID, UserID: admin.ID}, allow)
			Expect(err).To(MatchError(gorm.ErrDuplicatedKey))
		})

		It("passes the locked event and current count to the check", func() {
			capped := func(e *entity.Event, registered int64) error {
				if registered >= int64(e.Capacity) {
					return errFull
				}
				return nil
			}
			for _, email := range []string{"a@campus.edu", "b@campus.edu"} {
				user := createUser("Student", email)
				_, err := participants.Register(ctx, &entity.EventParticipant{EventID: event.ID, UserID: user.ID}, capped)
				Expect(err).NotTo(HaveOccurred())
			}

			late := createUser("Late", "late@campus.edu")
			_, err := participants.Register(ctx, &entity.EventParticipant{EventID: event.ID, UserID: late.ID}, capped)
			Expect(err).To(MatchError(errFull))

			registered, err := participants.GetParticipants(ctx, event.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(registered).To(HaveLen(2))
		})

		It("deletes a registration and reports a missing one", func() {
			_, err := participants.Register(ctx, &entity.EventParticipant{EventID: event.ID, UserID: admin.ID}, allow)
			Expect(err).NotTo(HaveOccurred())

			Expect(participants.Delete(ctx, event.ID, admin.ID)).To(Succeed())
			Expect(participants.Delete(ctx, event.ID, admin.ID)).To(MatchError(gorm.ErrRecordNotFound))
		})

		It("returns the events of a user and skips notified participants", func() {
			_, err := participants.Register(ctx, &entity.EventParticipant{EventID: event.ID, UserID: admin.ID}, allow)
			Expect(err).NotTo(HaveOccurred())

			userEvents, err := participants.GetUserEvents(ctx, admin.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(userEvents).To(HaveLen(1))
			Expect(userEvents[0].Title).To(Equal("Meetup"))

			pending, err := notifications.GetUnnotifiedUsers(ctx, event.ID, entity.NotificationTypeDay)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))

			Expect(notifications.Create(ctx, &entity.EventNotification{
				EventID: event.ID,
				UserID:  admin.ID,
				Type:    entity.NotificationTypeDay,
			})).To(Succeed())

			pending, err = notifications.GetUnnotifiedUsers(ctx, event.ID, entity.NotificationTypeDay)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())

			pending, err = notifications.GetUnnotifiedUsers(ctx, event.ID, entity.NotificationTypeHour)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
		})
	})

	Describe("ClubStorage", func() {
		It("cascades a club delete", func() {
			admin := createUser("Admin", "admin@campus.edu")
			club := createClub("Chess", admin)
			other := createClub("Drama", admin)
			event := createEvent(club, admin, now.Add(48*time.Hour), entity.StatusApproved)
			kept := createEvent(other, admin, now.Add(48*time.Hour), entity.StatusApproved)
			_, err := memberships.Create(ctx, &entity.ClubMembership{UserID: admin.ID, ClubID: club.ID})
			Expect(err).NotTo(HaveOccurred())
			_, err = participants.Register(ctx, &entity.EventParticipant{EventID: event.ID, UserID: admin.ID}, allow)
			Expect(err).NotTo(HaveOccurred())

			Expect(clubs.Delete(ctx, club.ID)).To(Succeed())

			_, err = events.Get(ctx, event.ID)
			Expect(err).To(MatchError(gorm.ErrRecordNotFound))
			_, err = memberships.GetByUserAndClub(ctx, admin.ID, club.ID)
			Expect(err).To(MatchError(gorm.ErrRecordNotFound))
			registered, err := participants.GetParticipants(ctx, event.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(registered).To(BeEmpty())

			_, err = events.Get(ctx, kept.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(clubs.Delete(ctx, club.ID)).To(MatchError(gorm.ErrRecordNotFound))
		})
	})
})
