package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/utils/validator"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	"github.com/Badsnus/campus-events/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	PasswordResetTTL = 15 * time.Minute
	TelegramLinkTTL  = 10 * time.Minute

	// MaxResetAttempts is the number of wrong reset codes accepted per email
	// within PasswordResetTTL before the pending code is dropped.
	MaxResetAttempts = 5

	passwordResetPrefix         = "reset"
	passwordResetAttemptsPrefix = "reset_attempts"
	telegramLinkPrefix          = "telegram"
)

type authUserStorage interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateTelegramID(ctx context.Context, id string, telegramID int64) error
}

type sessionStorage interface {
	Set(ctx context.Context, sessionID, userID string, expiration time.Duration) error
	Get(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
	ClearUser(ctx context.Context, userID string) error
}

type codeStorage interface {
	Get(ctx context.Context, prefix, id string) (dto.Code, error)
	Set(ctx context.Context, prefix, id string, code string, codeContext string, expiration time.Duration) error
	Attempts(ctx context.Context, prefix, id string) (int64, error)
	Attempt(ctx context.Context, prefix, id string, window time.Duration) (int64, error)
	Clear(ctx context.Context, prefix, id string) error
}

type tokenManager interface {
	Issue(userID, sessionID string) (string, time.Time, error)
	Parse(tokenString string) (*token.Claims, error)
	TTL() time.Duration
}

type authNotifier interface {
	PasswordResetCode(email, code string)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

type AuthService struct {
	logger *types.Logger

	userStorage    authUserStorage
	sessionStorage sessionStorage
	codeStorage    codeStorage
	tokens         tokenManager
	notifier       authNotifier

	emailDomains []string
}

func NewAuthService(
	logger *types.Logger,
	userStorage authUserStorage,
	sessionStorage sessionStorage,
	codeStorage codeStorage,
	tokens tokenManager,
	notifier authNotifier,
	emailDomains []string,
) *AuthService {
	return &AuthService{
		logger:         logger,
		userStorage:    userStorage,
		sessionStorage: sessionStorage,
		codeStorage:    codeStorage,
		tokens:         tokens,
		notifier:       notifier,
		emailDomains:   emailDomains,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	var fields []string
	if !validator.UserName(name) {
		fields = append(fields, "name")
	}
	if !validator.Email(email, s.emailDomains...) {
		fields = append(fields, "email")
	}
	if !validator.Password(password) {
		fields = append(fields, "password")
	}
	if err := errorz.Validation(fields...); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userStorage.Create(ctx, &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorz.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Infof("User signed up (user_id=%s)", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userStorage.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorz.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errorz.ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	signed, expiresAt, err := s.tokens.Issue(user.ID, sessionID)
	if err != nil {
		return nil, err
	}
	if err = s.sessionStorage.Set(ctx, sessionID, user.ID, s.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Infof("User logged in (user_id=%s)", user.ID)
	return &Session{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionStorage.Clear(ctx, sessionID)
}

// Authenticate resolves a bearer token into the acting user. The role always
// comes from the store, so role changes apply to existing sessions.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (entity.Actor, string, error) {
	if tokenString == "" {
		return entity.Actor{}, "", errorz.ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return entity.Actor{}, "", errorz.ErrSessionExpired
		}
		return entity.Actor{}, "", errorz.ErrUnauthenticated
	}

	userID, err := s.sessionStorage.Get(ctx, claims.SessionID)
	if err != nil {
		return entity.Actor{}, "", fmt.Errorf("get session: %w", err)
	}
	if userID == "" {
		return entity.Actor{}, "", errorz.ErrSessionExpired
	}
	if userID != claims.UserID {
		return entity.Actor{}, "", errorz.ErrUnauthenticated
	}

	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Actor{}, "", errorz.ErrUnauthenticated
		}
		return entity.Actor{}, "", fmt.Errorf("get user: %w", err)
	}

	return entity.Actor{UserID: user.ID, Role: user.Role}, claims.SessionID, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor entity.Actor, oldPassword, newPassword string) error {
	if !actor.IsAuthenticated() {
		return errorz.ErrUnauthenticated
	}
	user, err := s.userStorage.Get(ctx, actor.UserID)
	if err != nil {
		return notFound(err, "user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return errorz.ErrInvalidCredentials
	}
	return s.setPassword(ctx, user, newPassword)
}

// RequestPasswordReset emails a one-time code. Unknown emails are accepted
// silently so the endpoint does not reveal which addresses are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.userStorage.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debugf("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}
	if err = s.codeStorage.Set(ctx, passwordResetPrefix, email, code, "", PasswordResetTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	s.notifier.PasswordResetCode(email, code)
	return nil
}

// ResetPassword sets a new password with a code from RequestPasswordReset and
// revokes every session of the user. After MaxResetAttempts wrong codes the
// pending code is dropped and every code is refused until the window ends.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	attempts, err := s.codeStorage.Attempts(ctx, passwordResetAttemptsPrefix, email)
	if err != nil {
		return fmt.Errorf("get reset attempts: %w", err)
	}
	if attempts >= MaxResetAttempts {
		return errorz.ErrInvalidCode
	}
	stored, err := s.codeStorage.Get(ctx, passwordResetPrefix, email)
	if err != nil {
		return fmt.Errorf("get reset code: %w", err)
	}
	if stored.Code == "" {
		return errorz.ErrInvalidCode
	}
	if stored.Code != code {
		return s.failResetAttempt(ctx, email)
	}

	user, err := s.userStorage.GetByEmail(ctx, email)
	if err != nil {
		return notFound(err, "user")
	}
	if err = s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}

	if err = s.codeStorage.Clear(ctx, passwordResetPrefix, email); err != nil {
		s.logger.Errorf("failed to clear reset code: %v", err)
	}
	if err = s.codeStorage.Clear(ctx, passwordResetAttemptsPrefix, email); err != nil {
		s.logger.Errorf("failed to clear reset attempts: %v", err)
	}
	if err = s.sessionStorage.ClearUser(ctx, user.ID); err != nil {
		s.logger.Errorf("failed to revoke sessions of user %s: %v", user.ID, err)
	}
	return nil
}

func (s *AuthService) failResetAttempt(ctx context.Context, email string) error {
	attempts, err := s.codeStorage.Attempt(ctx, passwordResetAttemptsPrefix, email, PasswordResetTTL)
	if err != nil {
		return fmt.Errorf("count reset attempt: %w", err)
	}
	if attempts >= MaxResetAttempts {
		if err = s.codeStorage.Clear(ctx, passwordResetPrefix, email); err != nil {
			return fmt.Errorf("clear reset code: %w", err)
		}
		s.logger.Warnf("Password reset code dropped after %d wrong attempts", attempts)
	}
	return errorz.ErrInvalidCode
}

func (s *AuthService) setPassword(ctx context.Context, user *entity.User, password string) error {
	if !validator.Password(password) {
		return errorz.Validation("password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err = s.userStorage.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = string(hash)
	s.logger.Infof("Password changed (user_id=%s)", user.ID)
	return nil
}

// TelegramLinkCode issues a code the user sends to the bot as /start <code>.
func (s *AuthService) TelegramLinkCode(ctx context.Context, actor entity.Actor) (string, error) {
	if !actor.IsAuthenticated() {
		return "", errorz.ErrUnauthenticated
	}
	code, err := generateNumericCode(8)
	if err != nil {
		return "", err
	}
	if err = s.codeStorage.Set(ctx, telegramLinkPrefix, code, code, actor.UserID, TelegramLinkTTL); err != nil {
		return "", fmt.Errorf("store telegram code: %w", err)
	}
	return code, nil
}

// LinkTelegram attaches the Telegram chat to the user the code was issued to.
func (s *AuthService) LinkTelegram(ctx context.Context, code string, telegramID int64) (*entity.User, error) {
	stored, err := s.codeStorage.Get(ctx, telegramLinkPrefix, code)
	if err != nil {
		return nil, fmt.Errorf("get telegram code: %w", err)
	}
	if stored.Code == "" || stored.CodeContext == "" {
		return nil, errorz.ErrInvalidCode
	}

	user, err := s.userStorage.Get(ctx, stored.CodeContext)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if err = s.userStorage.UpdateTelegramID(ctx, user.ID, telegramID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorz.ErrTelegramTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	user.TelegramID = &telegramID

	if err = s.codeStorage.Clear(ctx, telegramLinkPrefix, code); err != nil {
		s.logger.Errorf("failed to clear telegram code: %v", err)
	}
	s.logger.Infof("Telegram linked (user_id=%s)", user.ID)
	return user, nil
}

func generateNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
