package service_test

import (
	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ClubMembershipService", func() {
	var (
		env       *testEnv
		admin     entity.Actor
		clubAdmin entity.Actor
		student   entity.Actor
		club      *entity.Club
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
	})

	It("approves a join request and lists the new member", func() {
		membership, err := env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(membership.Status).To(Equal(entity.StatusPending))
		Expect(env.notifier.membershipRequests).To(ConsistOf(student.UserID))

		pending, err := env.membershipService.ListPending(env.ctx, clubAdmin, club.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(HaveLen(1))
		Expect(pending[0].UserID).To(Equal(student.UserID))

		decided, err := env.membershipService.Decide(env.ctx, clubAdmin, membership.ID, "approved")
		Expect(err).NotTo(HaveOccurred())
		Expect(decided.Status).To(Equal(entity.StatusApproved))
		Expect(*decided.DecidedBy).To(Equal(clubAdmin.UserID))
		Expect(env.notifier.membershipDecided).To(HaveLen(1))

		members, err := env.membershipService.ListMembers(env.ctx, club.ID, "")
		Expect(err).NotTo(HaveOccurred())
		userIDs := make([]string, 0, len(members))
		for _, member := range members {
			userIDs = append(userIDs, member.UserID)
		}
		Expect(userIDs).To(ConsistOf(student.UserID, clubAdmin.UserID))

		clubs, err := env.membershipService.MyClubs(env.ctx, student)
		Expect(err).NotTo(HaveOccurred())
		Expect(clubs).To(HaveLen(1))
		Expect(clubs[0].ID).To(Equal(club.ID))
	})

	It("rejects a second request while one exists", func() {
		_, err := env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())

		_, err = env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).To(MatchError(errorz.ErrAlreadyMember))
	})

	It("does not let a rejected user ask again", func() {
		membership, err := env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())
		_, err = env.membershipService.Decide(env.ctx, clubAdmin, membership.ID, "rejected")
		Expect(err).NotTo(HaveOccurred())

		_, err = env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).To(MatchError(errorz.ErrMembershipRejected))

		clubs, err := env.membershipService.MyClubs(env.ctx, student)
		Expect(err).NotTo(HaveOccurred())
		Expect(clubs).To(BeEmpty())
	})

	It("requires a known club", func() {
		_, err := env.membershipService.RequestJoin(env.ctx, student, "00000000-0000-0000-0000-000000000000")
		Expect(err).To(MatchError(errorz.ErrNotFound))
	})

	It("requires authentication", func() {
		_, err := env.membershipService.RequestJoin(env.ctx, entity.Actor{}, club.ID)
		Expect(err).To(MatchError(errorz.ErrUnauthenticated))
	})

	It("lets only admins of the club decide", func() {
		membership, err := env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())

		_, outsider := env.createUser("Outsider", entity.RoleUser)
		_, err = env.membershipService.Decide(env.ctx, outsider, membership.ID, "approved")
		Expect(err).To(MatchError(errorz.ErrForbidden))

		_, err = env.membershipService.Decide(env.ctx, admin, membership.ID, "approved")
		Expect(err).NotTo(HaveOccurred())
	})

	It("decides a membership only once", func() {
		membership, err := env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())
		_, err = env.membershipService.Decide(env.ctx, clubAdmin, membership.ID, "approved")
		Expect(err).NotTo(HaveOccurred())

		again, err := env.membershipService.Decide(env.ctx, clubAdmin, membership.ID, "approved")
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Status).To(Equal(entity.StatusApproved))
		Expect(env.notifier.membershipDecided).To(HaveLen(1))

		_, err = env.membershipService.Decide(env.ctx, clubAdmin, membership.ID, "rejected")
		Expect(err).To(MatchError(errorz.ErrInvalidTransition))
	})

	It("refuses an unknown outcome", func() {
		membership, err := env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())

		_, err = env.membershipService.Decide(env.ctx, clubAdmin, membership.ID, "pending")
		Expect(err).To(MatchError(errorz.ErrInvalidInput))
	})

	It("reports the membership status of the actor", func() {
		status, err := env.membershipService.Status(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(BeNil())

		_, err = env.membershipService.RequestJoin(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())

		status, err = env.membershipService.Status(env.ctx, student, club.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Status).To(Equal(entity.StatusPending))
	})

	Describe("club admins", func() {
		It("promotes the appointed user", func() {
			user, err := env.users.Get(env.ctx, clubAdmin.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entity.RoleClubAdmin))

			ids, err := env.membershipService.AdministeredClubIDs(env.ctx, clubAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf(club.ID))
		})

		It("demotes a club admin without clubs", func() {
			Expect(env.membershipService.RemoveAdmin(env.ctx, admin, club.ID, clubAdmin.UserID)).To(Succeed())

			user, err := env.users.Get(env.ctx, clubAdmin.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entity.RoleUser))

			status, err := env.membershipService.Status(env.ctx, clubAdmin, club.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Role).To(Equal(entity.MemberRoleMember))
			Expect(status.Status).To(Equal(entity.StatusApproved))
		})

		It("keeps the role while another club is administered", func() {
			other := env.createClub("Drama Club", admin)
			_, err := env.membershipService.AppointAdmin(env.ctx, admin, other.ID, clubAdmin.UserID)
			Expect(err).NotTo(HaveOccurred())

			Expect(env.membershipService.RemoveAdmin(env.ctx, admin, club.ID, clubAdmin.UserID)).To(Succeed())

			user, err := env.users.Get(env.ctx, clubAdmin.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entity.RoleClubAdmin))
		})

		It("is reserved to site admins", func() {
			_, err := env.membershipService.AppointAdmin(env.ctx, clubAdmin, club.ID, student.UserID)
			Expect(err).To(MatchError(errorz.ErrForbidden))

			err = env.membershipService.RemoveAdmin(env.ctx, clubAdmin, club.ID, clubAdmin.UserID)
			Expect(err).To(MatchError(errorz.ErrForbidden))
		})

		It("fails to remove a missing membership", func() {
			err := env.membershipService.RemoveAdmin(env.ctx, admin, club.ID, student.UserID)
			Expect(err).To(MatchError(errorz.ErrNotFound))
		})
	})
})
