package postgres_test

import (
	"context"
	"time"

	"github.com/Badsnus/campus-events/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StatsStorage", func() {
	var (
		ctx   context.Context
		stats *postgres.StatsStorage
		now   time.Time

		alice, bob *entity.User
		chess      *entity.Club
		drama      *entity.Club
		past       *entity.Event
		upcoming   *entity.Event
		rejected   *entity.Event
		pending    *entity.Event
	)

	BeforeEach(func() {
		ctx = context.Background()
		db := newTestDB()
		stats = postgres.NewStatsStorage(db)
		now = time.Now().UTC()

		users := postgres.NewUserStorage(db)
		clubs := postgres.NewClubStorage(db)
		memberships := postgres.NewClubMembershipStorage(db)
		events := postgres.NewEventStorage(db)
		participants := postgres.NewEventParticipantStorage(db)

		var err error
		alice, err = users.Create(ctx, &entity.User{Name: "Alice", Email: "alice@campus.edu", PasswordHash: "hash"})
		Expect(err).NotTo(HaveOccurred())
		bob, err = users.Create(ctx, &entity.User{Name: "Bob", Email: "bob@campus.edu", PasswordHash: "hash"})
		Expect(err).NotTo(HaveOccurred())

		chess, err = clubs.Create(ctx, &entity.Club{Name: "Chess", CreatedBy: alice.ID})
		Expect(err).NotTo(HaveOccurred())
		drama, err = clubs.Create(ctx, &entity.Club{Name: "Drama", CreatedBy: alice.ID})
		Expect(err).NotTo(HaveOccurred())

		_, err = memberships.SetAdmin(ctx, alice.ID, chess.ID, alice.ID, now)
		Expect(err).NotTo(HaveOccurred())
		_, err = memberships.Create(ctx, &entity.ClubMembership{UserID: bob.ID, ClubID: chess.ID})
		Expect(err).NotTo(HaveOccurred())
		membership, err := memberships.Create(ctx, &entity.ClubMembership{UserID: bob.ID, ClubID: drama.ID})
		Expect(err).NotTo(HaveOccurred())
		_, err = memberships.UpdateStatus(ctx, membership.ID, entity.StatusApproved, alice.ID, now)
		Expect(err).NotTo(HaveOccurred())

		newEvent := func(club *entity.Club, startsAt time.Time, status entity.ApprovalStatus) *entity.Event {
			event, err := events.Create(ctx, &entity.Event{
				ClubID:      club.ID,
				Title:       "Event",
				Description: "Description",
				Location:    "Room 1",
				StartsAt:    startsAt,
				Capacity:    10,
				Status:      status,
				SubmittedBy: alice.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			return event
		}
		past = newEvent(chess, now.Add(-48*time.Hour), entity.StatusApproved)
		upcoming = newEvent(chess, now.Add(48*time.Hour), entity.StatusApproved)
		rejected = newEvent(chess, now.Add(48*time.Hour), entity.StatusRejected)
		pending = newEvent(drama, now.Add(24*time.Hour), entity.StatusPending)

		allow := func(_ *entity.Event, _ int64) error { return nil }
		for _, registration := range []struct {
			event *entity.Event
			user  *entity.User
		}{
			{upcoming, alice},
			{upcoming, bob},
			{past, bob},
		} {
			_, err = participants.Register(ctx, &entity.EventParticipant{EventID: registration.event.ID, UserID: registration.user.ID}, allow)
			Expect(err).NotTo(HaveOccurred())
		}
	})

	It("counts registrations per event", func() {
		counts, err := stats.RegistrationCounts(ctx, []string{past.ID, upcoming.ID, rejected.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(counts).To(Equal(map[string]int64{upcoming.ID: 2, past.ID: 1}))
	})

	It("counts approved members and events per club", func() {
		members, err := stats.MemberCounts(ctx, []string{chess.ID, drama.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(members).To(Equal(map[string]int64{chess.ID: 1, drama.ID: 1}))

		eventCounts, err := stats.EventCounts(ctx, []string{chess.ID, drama.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(eventCounts).To(Equal(map[string]int64{chess.ID: 3, drama.ID: 1}))
	})

	It("builds the admin overview", func() {
		overview, err := stats.Overview(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(overview.Users).To(Equal(int64(2)))
		Expect(overview.Clubs).To(Equal(int64(2)))
		Expect(overview.Events).To(Equal(int64(4)))
		Expect(overview.PendingEvents).To(Equal(int64(1)))
		Expect(overview.PendingMemberships).To(Equal(int64(1)))
	})

	It("builds the club stats table ordered by name", func() {
		rows, err := stats.ClubStats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Name).To(Equal("Chess"))
		Expect(rows[0].MemberCount).To(Equal(int64(1)))
		Expect(rows[0].EventCount).To(Equal(int64(3)))
		Expect(rows[1].Name).To(Equal("Drama"))
	})

	It("summarises administered clubs", func() {
		summaries, err := stats.ClubSummaries(ctx, []string{chess.ID}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(summaries).To(HaveLen(1))
		Expect(summaries[0].UpcomingEvents).To(Equal(int64(1)))
		Expect(summaries[0].Members).To(Equal(int64(1)))
		Expect(summaries[0].PendingRequests).To(Equal(int64(1)))
		Expect(summaries[0].Registrations).To(Equal(int64(3)))
	})

	It("counts pending upcoming events in the club summary", func() {
		Expect(pending.ClubID).To(Equal(drama.ID))
		Expect(pending.Status).To(Equal(entity.StatusPending))

		summaries, err := stats.ClubSummaries(ctx, []string{drama.ID}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(summaries).To(HaveLen(1))
		Expect(summaries[0].UpcomingEvents).To(Equal(int64(1)))
		Expect(summaries[0].Members).To(Equal(int64(1)))
		Expect(summaries[0].PendingRequests).To(BeZero())
		Expect(summaries[0].Registrations).To(BeZero())

		summaries, err = stats.ClubSummaries(ctx, []string{drama.ID}, pending.StartsAt.Add(time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(summaries[0].UpcomingEvents).To(BeZero())
	})

	It("scopes upcoming events to the clubs of the user", func() {
		count, err := stats.UpcomingCount(ctx, bob.ID, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))

		count, err = stats.UpcomingCount(ctx, alice.ID, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))

		clubs, registrations, err := stats.UserCounts(ctx, bob.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(clubs).To(Equal(int64(1)))
		Expect(registrations).To(Equal(int64(2)))
	})
})
