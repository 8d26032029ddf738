package service_test

import (
	"context"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/service"
	"github.com/Badsnus/campus-events/pkg/logger"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap/zapcore"
)

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeMessenger struct {
	messages chan sentMessage
}

func (m *fakeMessenger) Send(_ context.Context, chatID int64, text string) error {
	m.messages <- sentMessage{ChatID: chatID, Text: text}
	return nil
}

var _ = Describe("NotifyService", func() {
	var (
		env       *testEnv
		mailer    *fakeMailer
		notify    *service.NotifyService
		admin     entity.Actor
		clubAdmin entity.Actor
		club      *entity.Club
	)

	BeforeEach(func() {
		env = newTestEnv()
		mailer = &fakeMailer{}
		notify = service.NewNotifyService(
			logger.Nop("notify"),
			mailer,
			nil,
			env.users,
			env.memberships,
			env.events,
			env.notifications,
		)

		_, admin = env.createUser("Site Admin", entity.RoleAdmin)
		_, clubAdmin = env.createUser("Club Admin", entity.RoleUser)
		club = env.createClub("Chess Club", admin)
		_, err := env.membershipService.AppointAdmin(env.ctx, admin, club.ID, clubAdmin.UserID)
		Expect(err).NotTo(HaveOccurred())
	})

	recipients := func() []string {
		var to []string
		for _, mail := range mailer.Sent() {
			to = append(to, mail.To)
		}
		return to
	}

	emailOf := func(actor entity.Actor) string {
		user, err := env.users.Get(env.ctx, actor.UserID)
		Expect(err).NotTo(HaveOccurred())
		return user.Email
	}

	It("asks the club admins about a join request", func() {
		student, _ := env.createUser("Student", entity.RoleUser)

		notify.MembershipRequested(*club, student.ID)
		notify.Wait()

		Expect(recipients()).To(ConsistOf(emailOf(clubAdmin)))
		Expect(mailer.Sent()[0].Body).To(ContainSubstring("Student"))
	})

	It("announces an approved event to the submitter and the members", func() {
		_, member := env.createUser("Member", entity.RoleUser)
		membership, err := env.membershipService.RequestJoin(env.ctx, member, club.ID)
		Expect(err).NotTo(HaveOccurred())
		_, err = env.membershipService.Decide(env.ctx, clubAdmin, membership.ID, "approved")
		Expect(err).NotTo(HaveOccurred())

		event := env.createEvent(club, clubAdmin, time.Now().Add(72*time.Hour), 10, entity.StatusApproved)
		notify.EventDecided(*club, *event)
		notify.Wait()

		Expect(recipients()).To(ConsistOf(emailOf(clubAdmin), emailOf(member)))
	})

	It("tells only the submitter about a rejection", func() {
		event := env.createEvent(club, clubAdmin, time.Now().Add(72*time.Hour), 10, entity.StatusRejected)
		notify.EventDecided(*club, *event)
		notify.Wait()

		Expect(recipients()).To(ConsistOf(emailOf(clubAdmin)))
	})

	It("asks the site admins to review a submission", func() {
		event := env.createEvent(club, clubAdmin, time.Now().Add(72*time.Hour), 10, entity.StatusPending)
		notify.EventSubmitted(*club, *event)
		notify.Wait()

		Expect(recipients()).To(ConsistOf(emailOf(admin)))
	})

	It("keeps failed deliveries away from the caller", func() {
		mailer.fails = true

		notify.PasswordResetCode("ann@campus.edu", "123456")
		notify.Wait()

		Expect(mailer.Sent()).To(BeEmpty())
	})

	Describe("CheckAndNotify", func() {
		var (
			now     time.Time
			student entity.Actor
		)

		BeforeEach(func() {
			now = time.Now().UTC()
			_, student = env.createUser("Student", entity.RoleUser)
		})

		register := func(startsAt time.Time) *entity.Event {
			event := env.createEvent(club, clubAdmin, startsAt, 10, entity.StatusApproved)
			_, err := env.participantService.Register(env.ctx, student, event.ID)
			Expect(err).NotTo(HaveOccurred())
			return event
		}

		It("sends the day reminder once", func() {
			register(now.Add(23*time.Hour + 30*time.Minute))

			notify.CheckAndNotify(env.ctx, now)
			notify.CheckAndNotify(env.ctx, now.Add(time.Minute))

			Expect(recipients()).To(ConsistOf(emailOf(student)))
			Expect(mailer.Sent()[0].Subject).To(HavePrefix("Tomorrow"))
		})

		It("sends the hour reminder once", func() {
			register(now.Add(58 * time.Minute))

			notify.CheckAndNotify(env.ctx, now)
			notify.CheckAndNotify(env.ctx, now.Add(time.Minute))

			Expect(recipients()).To(ConsistOf(emailOf(student)))
			Expect(mailer.Sent()[0].Subject).To(HavePrefix("In an hour"))
		})

		It("stays quiet outside the reminder windows", func() {
			register(now.Add(5 * time.Hour))

			notify.CheckAndNotify(env.ctx, now)

			Expect(mailer.Sent()).To(BeEmpty())
		})

		It("retries a reminder that failed", func() {
			register(now.Add(58 * time.Minute))

			mailer.fails = true
			notify.CheckAndNotify(env.ctx, now)
			mailer.fails = false
			notify.CheckAndNotify(env.ctx, now.Add(time.Minute))

			Expect(recipients()).To(ConsistOf(emailOf(student)))
		})
	})

	It("stops the scheduler with its context", func() {
		ctx, cancel := context.WithCancel(env.ctx)
		notify.StartNotifyScheduler(ctx)
		cancel()

		done := make(chan struct{})
		go func() {
			notify.Wait()
			close(done)
		}()
		Eventually(done).Should(BeClosed())
	})

	Describe("LogHook", func() {
		It("requires a messenger", func() {
			_, err := notify.LogHook(1, zapcore.ErrorLevel)
			Expect(err).To(HaveOccurred())
		})

		It("forwards logs above the level", func() {
			messenger := &fakeMessenger{messages: make(chan sentMessage, 4)}
			withTelegram := service.NewNotifyService(
				logger.Nop("notify"),
				nil,
				messenger,
				env.users,
				env.memberships,
				env.events,
				env.notifications,
			)

			hook, err := withTelegram.LogHook(-100, zapcore.WarnLevel)
			Expect(err).NotTo(HaveOccurred())

			hook(types.Log{Level: zapcore.InfoLevel, Message: "ignored"})
			hook(types.Log{Level: zapcore.ErrorLevel, Message: "database is down"})
			withTelegram.Wait()

			Expect(messenger.messages).To(HaveLen(1))
			message := <-messenger.messages
			Expect(message.ChatID).To(BeEquivalentTo(-100))
			Expect(message.Text).To(ContainSubstring("database is down"))
		})

		It("drops logs once closed", func() {
			messenger := &fakeMessenger{messages: make(chan sentMessage, 4)}
			withTelegram := service.NewNotifyService(
				logger.Nop("notify"),
				nil,
				messenger,
				env.users,
				env.memberships,
				env.events,
				env.notifications,
			)
			hook, err := withTelegram.LogHook(-100, zapcore.WarnLevel)
			Expect(err).NotTo(HaveOccurred())

			hook(types.Log{Level: zapcore.ErrorLevel, Message: "before close"})
			withTelegram.Close()
			hook(types.Log{Level: zapcore.ErrorLevel, Message: "after close"})
			withTelegram.Wait()

			Expect(messenger.messages).To(HaveLen(1))
			Expect((<-messenger.messages).Text).To(ContainSubstring("before close"))
		})
	})
})
