package service_test

import (
	"errors"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/service"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventService", func() {
	var (
		env       *testEnv
		admin     entity.Actor
		clubAdmin entity.Actor
		student   entity.Actor
		club      *entity.Club
		input     dto.EventInput
	)

	BeforeEach(func() {
		env = newTestEnv()
		_, admin = env.createUser("Site Admin", entity.RoleAdmin)
		_, clubAdmin = env.createUser("Club Admin", entity.RoleUser)
		_, student = env.createUser("Student", entity.RoleUser)
		club = env.createClub("Chess Club", admin)

		_, err := env.membershipService.AppointAdmin(env.ctx, admin, club.ID, clubAdmin.UserID)
		Expect(err).NotTo(HaveOccurred())
		clubAdmin.Role = entity.RoleClubAdmin

		input = dto.EventInput{
			Title:       "Blitz tournament",
			Description: "Five minute games",
			Date:        time.Now().UTC().Add(72 * time.Hour).Format("2006-01-02"),
			Time:        "18:30",
			Location:    "Library",
			Capacity:    50,
		}
	})

	Describe("Submit", func() {
		It("creates a pending event", func() {
			event, err := env.eventService.Submit(env.ctx, clubAdmin, club.ID, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(event.Status).To(Equal(entity.StatusPending))
			Expect(event.SubmittedBy).To(Equal(clubAdmin.UserID))
			Expect(event.StartsAt.Format("15:04")).To(Equal("18:30"))
			Expect(env.notifier.eventsSubmitted).To(HaveLen(1))
		})

		It("names every invalid field", func() {
			input.Title = "x"
			input.Capacity = 0
			input.Time = "25:99"

			_, err := env.eventService.Submit(env.ctx, clubAdmin, club.ID, input)
			Expect(err).To(MatchError(errorz.ErrInvalidInput))

			var validationErr *errorz.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
			Expect(validationErr.Fields).To(ConsistOf("title", "time", "capacity"))
		})

		It("refuses a start in the past", func() {
			input.Date = time.Now().UTC().Add(-48 * time.Hour).Format("2006-01-02")

			_, err := env.eventService.Submit(env.ctx, clubAdmin, club.ID, input)
			var validationErr *errorz.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
			Expect(validationErr.Fields).To(ConsistOf("date"))
		})

		It("is reserved to admins of the club", func() {
			_, err := env.eventService.Submit(env.ctx, student, club.ID, input)
			Expect(err).To(MatchError(errorz.ErrForbidden))

			_, err = env.eventService.Submit(env.ctx, admin, club.ID, input)
			Expect(err).NotTo(HaveOccurred())
		})

		It("requires a known club", func() {
			_, err := env.eventService.Submit(env.ctx, clubAdmin, "00000000-0000-0000-0000-000000000000", input)
			Expect(err).To(MatchError(errorz.ErrNotFound))
		})
	})

	Describe("Decide", func() {
		var first, second *entity.Event

		BeforeEach(func() {
			var err error
			first, err = env.eventService.Submit(env.ctx, clubAdmin, club.ID, input)
			Expect(err).NotTo(HaveOccurred())
			second, err = env.eventService.Submit(env.ctx, clubAdmin, club.ID, input)
			Expect(err).NotTo(HaveOccurred())
		})

		It("is reserved to site admins", func() {
			_, err := env.eventService.Decide(env.ctx, clubAdmin, first.ID, "approved")
			Expect(err).To(MatchError(errorz.ErrForbidden))
		})

		It("changes only the decided event", func() {
			_, err := env.eventService.Decide(env.ctx, admin, first.ID, "rejected")
			Expect(err).NotTo(HaveOccurred())

			stored, err := env.events.Get(env.ctx, second.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(entity.StatusPending))

			pending, err := env.eventService.ListPending(env.ctx, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].ID).To(Equal(second.ID))
		})

		It("publishes an approved event", func() {
			decided, err := env.eventService.Decide(env.ctx, admin, first.ID, "approved")
			Expect(err).NotTo(HaveOccurred())
			Expect(decided.Status).To(Equal(entity.StatusApproved))
			Expect(env.notifier.eventsDecided).To(HaveLen(1))

			events, err := env.eventService.ListApproved(env.ctx, student, time.Now(), "", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(1))
			Expect(events[0].ID).To(Equal(first.ID))
		})

		It("decides an event only once", func() {
			_, err := env.eventService.Decide(env.ctx, admin, first.ID, "approved")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.eventService.Decide(env.ctx, admin, first.ID, "approved")
			Expect(err).NotTo(HaveOccurred())
			Expect(env.notifier.eventsDecided).To(HaveLen(1))

			_, err = env.eventService.Decide(env.ctx, admin, first.ID, "rejected")
			Expect(err).To(MatchError(errorz.ErrInvalidTransition))
		})
	})

	Describe("Get", func() {
		It("hides events that are not approved from outsiders", func() {
			event, err := env.eventService.Submit(env.ctx, clubAdmin, club.ID, input)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.eventService.Get(env.ctx, student, event.ID)
			Expect(err).To(MatchError(errorz.ErrNotFound))

			_, err = env.eventService.Get(env.ctx, entity.Actor{}, event.ID)
			Expect(err).To(MatchError(errorz.ErrNotFound))

			found, err := env.eventService.Get(env.ctx, clubAdmin, event.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(entity.StatusPending))
		})

		It("counts registrations", func() {
			event := env.createEvent(club, clubAdmin, time.Now().Add(48*time.Hour), 10, entity.StatusApproved)
			_, err := env.participantService.Register(env.ctx, student, event.ID)
			Expect(err).NotTo(HaveOccurred())

			found, err := env.eventService.Get(env.ctx, student, event.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.RegistrationCount).To(BeEquivalentTo(1))
			Expect(found.IsRegistered).To(BeTrue())
			Expect(found.SeatsLeft()).To(Equal(9))

			anonymous, err := env.eventService.Get(env.ctx, entity.Actor{}, event.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(anonymous.IsRegistered).To(BeFalse())
		})
	})

	Describe("ListForClubAdmin", func() {
		var upcoming, pending, past, rejected *entity.Event

		BeforeEach(func() {
			now := time.Now()
			upcoming = env.createEvent(club, clubAdmin, now.Add(24*time.Hour), 10, entity.StatusApproved)
			pending = env.createEvent(club, clubAdmin, now.Add(48*time.Hour), 10, entity.StatusPending)
			past = env.createEvent(club, clubAdmin, now.Add(-24*time.Hour), 10, entity.StatusApproved)
			rejected = env.createEvent(club, clubAdmin, now.Add(72*time.Hour), 10, entity.StatusRejected)

			other := env.createClub("Drama Club", admin)
			env.createEvent(other, admin, now.Add(24*time.Hour), 10, entity.StatusApproved)
		})

		ids := func(events []dto.Event) []string {
			result := make([]string, 0, len(events))
			for _, event := range events {
				result = append(result, event.ID)
			}
			return result
		}

		It("filters by tab", func() {
			all, err := env.eventService.ListForClubAdmin(env.ctx, clubAdmin, service.TabAll)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(all)).To(ConsistOf(upcoming.ID, pending.ID, past.ID, rejected.ID))

			soon, err := env.eventService.ListForClubAdmin(env.ctx, clubAdmin, service.TabUpcoming)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(soon)).To(ConsistOf(upcoming.ID, pending.ID))

			waiting, err := env.eventService.ListForClubAdmin(env.ctx, clubAdmin, service.TabPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(waiting)).To(ConsistOf(pending.ID))

			over, err := env.eventService.ListForClubAdmin(env.ctx, clubAdmin, service.TabPast)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(over)).To(ConsistOf(past.ID))
		})

		It("refuses an unknown tab", func() {
			_, err := env.eventService.ListForClubAdmin(env.ctx, clubAdmin, "archive")
			Expect(err).To(MatchError(errorz.ErrInvalidInput))
		})

		It("is forbidden without administered clubs", func() {
			_, err := env.eventService.ListForClubAdmin(env.ctx, student, service.TabAll)
			Expect(err).To(MatchError(errorz.ErrForbidden))
		})
	})
})
