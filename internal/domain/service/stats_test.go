package service_test

import (
	"time"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StatsService", func() {
	var (
		env       *testEnv
		admin     entity.Actor
		clubAdmin entity.Actor
		student   entity.Actor
		chess     *entity.Club
		drama     *entity.Club
	)

	BeforeEach(func() {
		env = newTestEnv()
		_, admin = env.createUser("Site Admin", entity.RoleAdmin)
		_, clubAdmin = env.createUser("Club Admin", entity.RoleUser)
		_, student = env.createUser("Student", entity.RoleUser)
		chess = env.createClub("Chess Club", admin)
		drama = env.createClub("Drama Club", admin)

		_, err := env.membershipService.AppointAdmin(env.ctx, admin, chess.ID, clubAdmin.UserID)
		Expect(err).NotTo(HaveOccurred())
		clubAdmin.Role = entity.RoleClubAdmin

		membership, err := env.membershipService.RequestJoin(env.ctx, student, chess.ID)
		Expect(err).NotTo(HaveOccurred())
		_, err = env.membershipService.Decide(env.ctx, clubAdmin, membership.ID, "approved")
		Expect(err).NotTo(HaveOccurred())
		_, err = env.membershipService.RequestJoin(env.ctx, student, drama.ID)
		Expect(err).NotTo(HaveOccurred())

		now := time.Now()
		soon := env.createEvent(chess, clubAdmin, now.Add(24*time.Hour), 10, entity.StatusApproved)
		env.createEvent(chess, clubAdmin, now.Add(48*time.Hour), 10, entity.StatusPending)
		env.createEvent(chess, clubAdmin, now.Add(72*time.Hour), 10, entity.StatusRejected)
		env.createEvent(chess, clubAdmin, now.Add(-24*time.Hour), 10, entity.StatusApproved)
		env.createEvent(drama, admin, now.Add(24*time.Hour), 10, entity.StatusApproved)

		_, err = env.participantService.Register(env.ctx, student, soon.ID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("builds the user dashboard", func() {
		dashboard, err := env.statsService.UserDashboard(env.ctx, student)
		Expect(err).NotTo(HaveOccurred())

		Expect(dashboard.UpcomingEvents).To(HaveLen(2))
		Expect(dashboard.UpcomingCount).To(BeEquivalentTo(2))
		Expect(dashboard.ClubCount).To(BeEquivalentTo(1))
		Expect(dashboard.RegistrationCount).To(BeEquivalentTo(1))

		registered := 0
		for _, event := range dashboard.UpcomingEvents {
			if event.IsRegistered {
				registered++
			}
		}
		Expect(registered).To(Equal(1))
	})

	It("builds the club admin dashboard", func() {
		dashboard, err := env.statsService.ClubDashboard(env.ctx, clubAdmin)
		Expect(err).NotTo(HaveOccurred())

		Expect(dashboard.Clubs).To(HaveLen(1))
		Expect(dashboard.Clubs[0].ClubID).To(Equal(chess.ID))
		Expect(dashboard.UpcomingEvents).To(BeEquivalentTo(2))
		Expect(dashboard.TotalMembers).To(BeEquivalentTo(2))
		Expect(dashboard.PendingRequests).To(BeEquivalentTo(0))
		Expect(dashboard.Registrations).To(BeEquivalentTo(1))
	})

	It("refuses the club admin dashboard to plain users", func() {
		_, err := env.statsService.ClubDashboard(env.ctx, student)
		Expect(err).To(MatchError(errorz.ErrForbidden))
	})

	It("builds the admin overview", func() {
		overview, err := env.statsService.AdminOverview(env.ctx, admin)
		Expect(err).NotTo(HaveOccurred())
		Expect(overview.Users).To(BeEquivalentTo(3))
		Expect(overview.Clubs).To(BeEquivalentTo(2))
		Expect(overview.Events).To(BeEquivalentTo(5))
		Expect(overview.PendingEvents).To(BeEquivalentTo(1))
		Expect(overview.PendingMemberships).To(BeEquivalentTo(1))

		_, err = env.statsService.AdminOverview(env.ctx, clubAdmin)
		Expect(err).To(MatchError(errorz.ErrForbidden))
	})

	It("counts members and events per club", func() {
		stats, err := env.statsService.ClubStats(env.ctx, admin)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(HaveLen(2))
		Expect(stats[0].Name).To(Equal("Chess Club"))
		Expect(stats[0].MemberCount).To(BeEquivalentTo(2))
		Expect(stats[0].EventCount).To(BeEquivalentTo(4))
		Expect(stats[1].MemberCount).To(BeEquivalentTo(0))
		Expect(stats[1].EventCount).To(BeEquivalentTo(1))
	})
})
