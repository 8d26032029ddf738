package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/utils/location"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	"go.uber.org/zap/zapcore"
)

const (
	notifyTimeout = 30 * time.Second
	eventLayout   = "02 Jan 2006 15:04"
)

// Mailer delivers email notifications.
type Mailer interface {
	SendMail(to, subject, body string) error
}

// Messenger delivers Telegram notifications to a chat.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type notifyUserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
	GetMany(ctx context.Context, ids []string) ([]entity.User, error)
	GetByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
}

type notifyMembershipStorage interface {
	GetAdmins(ctx context.Context, clubID string) ([]dto.ClubMember, error)
	GetByClubID(ctx context.Context, clubID string, status entity.ApprovalStatus, search string) ([]dto.ClubMember, error)
}

type eventStorage interface {
	GetUpcomingEvents(ctx context.Context, from, before time.Time) ([]entity.Event, error)
}

type notificationStorage interface {
	Create(ctx context.Context, notification *entity.EventNotification) error
	GetUnnotifiedUsers(ctx context.Context, eventID string, notificationType entity.NotificationType) ([]entity.EventParticipant, error)
}

type recipient struct {
	Email      string
	TelegramID *int64
}

func userRecipient(user entity.User) recipient {
	return recipient{Email: user.Email, TelegramID: user.TelegramID}
}

func memberRecipient(member dto.ClubMember) recipient {
	return recipient{Email: member.Email, TelegramID: member.TelegramID}
}

// NotifyService delivers notifications by email and Telegram. Every
// notification is sent in the background, failures are logged and never reach
// the operation that triggered them.
type NotifyService struct {
	userStorage         notifyUserStorage
	membershipStorage   notifyMembershipStorage
	eventStorage        eventStorage
	notificationStorage notificationStorage

	mailer    Mailer
	messenger Messenger
	logger    *types.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewNotifyService(
	logger *types.Logger,
	mailer Mailer,
	messenger Messenger,
	userStorage notifyUserStorage,
	membershipStorage notifyMembershipStorage,
	eventStorage eventStorage,
	notificationStorage notificationStorage,
) *NotifyService {
	return &NotifyService{
		userStorage:         userStorage,
		membershipStorage:   membershipStorage,
		eventStorage:        eventStorage,
		notificationStorage: notificationStorage,
		mailer:              mailer,
		messenger:           messenger,
		logger:              logger,
	}
}

// Wait blocks until every notification in flight is delivered.
func (s *NotifyService) Wait() {
	s.wg.Wait()
}

// Close stops accepting notifications and waits for the ones in flight.
// Notifications dispatched after Close are dropped.
func (s *NotifyService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *NotifyService) dispatch(fn func(ctx context.Context)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *NotifyService) deliver(ctx context.Context, to recipient, subject, body string) error {
	var errs []error
	if s.mailer != nil && to.Email != "" {
		if err := s.mailer.SendMail(to.Email, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	if s.messenger != nil && to.TelegramID != nil {
		if err := s.messenger.Send(ctx, *to.TelegramID, subject+"\n\n"+body); err != nil {
			errs = append(errs, fmt.Errorf("send telegram message to %d: %w", *to.TelegramID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *NotifyService) deliverAll(ctx context.Context, recipients []recipient, subject, body string) {
	for _, to := range recipients {
		if err := s.deliver(ctx, to, subject, body); err != nil {
			s.logger.Errorf("failed to deliver %q: %v", subject, err)
		}
	}
}

func (s *NotifyService) clubAdmins(ctx context.Context, clubID string) []recipient {
	admins, err := s.membershipStorage.GetAdmins(ctx, clubID)
	if err != nil {
		s.logger.Errorf("failed to get admins of club %s: %v", clubID, err)
		return nil
	}
	recipients := make([]recipient, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, memberRecipient(admin))
	}
	return recipients
}

func (s *NotifyService) user(ctx context.Context, userID string) (*entity.User, bool) {
	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		s.logger.Errorf("failed to get user %s: %v", userID, err)
		return nil, false
	}
	return user, true
}

func formatStart(startsAt time.Time) string {
	return startsAt.In(location.Location()).Format(eventLayout)
}

// MembershipRequested tells the club admins about a new join request.
func (s *NotifyService) MembershipRequested(club entity.Club, requesterID string) {
	s.dispatch(func(ctx context.Context) {
		requester, ok := s.user(ctx, requesterID)
		if !ok {
			return
		}
		s.deliverAll(ctx, s.clubAdmins(ctx, club.ID),
			fmt.Sprintf("New membership request for %s", club.Name),
			fmt.Sprintf("%s (%s) asked to join %s.", requester.Name, requester.Email, club.Name),
		)
	})
}

// MembershipDecided tells the member about the decision on their request.
func (s *NotifyService) MembershipDecided(club entity.Club, membership entity.ClubMembership) {
	s.dispatch(func(ctx context.Context) {
		member, ok := s.user(ctx, membership.UserID)
		if !ok {
			return
		}
		s.deliverAll(ctx, []recipient{userRecipient(*member)},
			fmt.Sprintf("Membership %s", membership.Status),
			fmt.Sprintf("Your request to join %s was %s.", club.Name, membership.Status),
		)
	})
}

// EventSubmitted asks the site admins to review a new event.
func (s *NotifyService) EventSubmitted(club entity.Club, event entity.Event) {
	s.dispatch(func(ctx context.Context) {
		admins, err := s.userStorage.GetByRole(ctx, entity.RoleAdmin)
		if err != nil {
			s.logger.Errorf("failed to get site admins: %v", err)
			return
		}
		recipients := make([]recipient, 0, len(admins))
		for _, admin := range admins {
			recipients = append(recipients, userRecipient(admin))
		}
		s.deliverAll(ctx, recipients,
			fmt.Sprintf("Event awaiting approval: %s", event.Title),
			fmt.Sprintf("%s submitted %q on %s at %s.", club.Name, event.Title, formatStart(event.StartsAt), event.Location),
		)
	})
}

// EventDecided tells the submitter about the decision and, once approved,
// announces the event to the approved members of the club.
func (s *NotifyService) EventDecided(club entity.Club, event entity.Event) {
	s.dispatch(func(ctx context.Context) {
		if submitter, ok := s.user(ctx, event.SubmittedBy); ok {
			s.deliverAll(ctx, []recipient{userRecipient(*submitter)},
				fmt.Sprintf("Event %s: %s", event.Status, event.Title),
				fmt.Sprintf("Your event %q for %s was %s.", event.Title, club.Name, event.Status),
			)
		}
		if event.Status != entity.StatusApproved {
			return
		}

		members, err := s.membershipStorage.GetByClubID(ctx, club.ID, entity.StatusApproved, "")
		if err != nil {
			s.logger.Errorf("failed to get members of club %s: %v", club.ID, err)
			return
		}
		recipients := make([]recipient, 0, len(members))
		for _, member := range members {
			if member.UserID == event.SubmittedBy {
				continue
			}
			recipients = append(recipients, memberRecipient(member))
		}
		s.deliverAll(ctx, recipients,
			fmt.Sprintf("New event in %s: %s", club.Name, event.Title),
			fmt.Sprintf("%s\n%s, %s\n%d seats.", event.Description, formatStart(event.StartsAt), event.Location, event.Capacity),
		)
	})
}

func (s *NotifyService) PasswordResetCode(email, code string) {
	s.dispatch(func(ctx context.Context) {
		s.deliverAll(ctx, []recipient{{Email: email}},
			"Password reset code",
			fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.", code),
		)
	})
}

// LogHook returns a log hook for the specified channel
//
// Parameters:
//   - channelID is the channel to send the log to
//   - level is the minimum log level to send
func (s *NotifyService) LogHook(channelID int64, level zapcore.Level) (types.LogHook, error) {
	if s.messenger == nil {
		return nil, errors.New("log hook requires telegram")
	}
	return func(log types.Log) {
		if log.Level < level || strings.Contains(log.Message, "failed to send log to channel") {
			return
		}
		s.dispatch(func(ctx context.Context) {
			if err := s.messenger.Send(ctx, channelID, log.String()); err != nil {
				s.logger.Errorf("failed to send log to channel %d: %v", channelID, err)
			}
		})
	}, nil
}

// StartNotifyScheduler starts the scheduler for sending reminders. It stops
// when ctx is done.
func (s *NotifyService) StartNotifyScheduler(ctx context.Context) {
	s.logger.Info("Starting notify scheduler")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Notify scheduler stopped")
				return
			case tick := <-ticker.C:
				s.CheckAndNotify(ctx, tick.UTC())
			}
		}
	}()
}

// CheckAndNotify sends the reminders due at now: a day reminder for events
// starting in 23 to 24 hours and an hour reminder for events starting in 55
// to 60 minutes. Participants get each reminder once.
func (s *NotifyService) CheckAndNotify(ctx context.Context, now time.Time) {
	s.logger.Debugf("Checking for events starting in the next 25 hours")

	events, err := s.eventStorage.GetUpcomingEvents(ctx, now, now.Add(25*time.Hour))
	if err != nil {
		s.logger.Errorf("failed to get upcoming events: %v", err)
		return
	}

	for _, event := range events {
		timeUntilStart := event.StartsAt.Sub(now)
		s.logger.Debugf("Event %s starts in %s", event.ID, timeUntilStart)

		if timeUntilStart >= 23*time.Hour && timeUntilStart <= 24*time.Hour {
			s.logger.Infof("Sending day notification for event (event_id=%s)", event.ID)
			s.sendNotifications(ctx, event, entity.NotificationTypeDay)
		}

		if timeUntilStart >= 55*time.Minute && timeUntilStart <= 60*time.Minute {
			s.logger.Infof("Sending hour notification for event (event_id=%s)", event.ID)
			s.sendNotifications(ctx, event, entity.NotificationTypeHour)
		}
	}
}

// sendNotifications sends notifications to users that have not been notified
func (s *NotifyService) sendNotifications(ctx context.Context, event entity.Event, notificationType entity.NotificationType) {
	participants, err := s.notificationStorage.GetUnnotifiedUsers(ctx, event.ID, notificationType)
	if err != nil {
		s.logger.Errorf("failed to get unnotified users for event %s: %v", event.ID, err)
		return
	}
	if len(participants) == 0 {
		return
	}

	userIDs := make([]string, 0, len(participants))
	for _, participant := range participants {
		userIDs = append(userIDs, participant.UserID)
	}
	users, err := s.userStorage.GetMany(ctx, userIDs)
	if err != nil {
		s.logger.Errorf("failed to get participants of event %s: %v", event.ID, err)
		return
	}

	subject := fmt.Sprintf("Tomorrow: %s", event.Title)
	if notificationType == entity.NotificationTypeHour {
		subject = fmt.Sprintf("In an hour: %s", event.Title)
	}
	body := fmt.Sprintf("%s starts at %s, %s.", event.Title, formatStart(event.StartsAt), event.Location)

	for _, user := range users {
		s.logger.Infof(
			"Sending notification to user (user_id=%s, event_id=%s, notification_type=%s)",
			user.ID,
			event.ID,
			notificationType,
		)

		if err = s.deliver(ctx, userRecipient(user), subject, body); err != nil {
			s.logger.Errorf("failed to send notification to user %s: %v", user.ID, err)
			continue
		}

		notification := &entity.EventNotification{
			EventID: event.ID,
			UserID:  user.ID,
			Type:    notificationType,
		}
		if err = s.notificationStorage.Create(ctx, notification); err != nil {
			s.logger.Errorf("failed to create notification record: %v", err)
		}
	}
}
