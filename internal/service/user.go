package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mallfront/mallfront/internal/auth"
	"github.com/mallfront/mallfront/internal/mail"
	"github.com/mallfront/mallfront/internal/metrics"
	"github.com/mallfront/mallfront/internal/model"
	"github.com/mallfront/mallfront/internal/repository"
)

// User service errors.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrMobileTaken        = errors.New("mobile already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidVerifyToken = errors.New("invalid or expired verification token")
)

// UserService handles registration, login, profile, and email verification.
type UserService struct {
	repo          *repository.Repository
	tokens        *auth.TokenManager
	mailer        *mail.Dispatcher
	postLogin     PostLoginHook
	verifyBaseURL string
	logger        *slog.Logger
	metrics       metrics.Recorder
}

// NewUserService creates a new UserService. postLogin may be nil when no
// post-login side effects are wanted (e.g. in tests).
func NewUserService(
	repo *repository.Repository,
	tokens *auth.TokenManager,
	mailer *mail.Dispatcher,
	postLogin PostLoginHook,
	verifyBaseURL string,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:          repo,
		tokens:        tokens,
		mailer:        mailer,
		postLogin:     postLogin,
		verifyBaseURL: verifyBaseURL,
		logger:        logger,
		metrics:       recorder,
	}
}

// UsernameCount returns how many users hold the given username (0 or 1).
func (s *UserService) UsernameCount(ctx context.Context, username string) (int, error) {
	return s.repo.CountUsersByUsername(ctx, username)
}

// MobileCount returns how many users hold the given mobile number (0 or 1).
func (s *UserService) MobileCount(ctx context.Context, mobile string) (int, error) {
	return s.repo.CountUsersByMobile(ctx, mobile)
}

// RegisterInput defines input for registration. Field formats are validated
// at the transport layer; uniqueness is enforced here.
type RegisterInput struct {
	Username string
	Mobile   string
	Password string
}

// Register creates a new account with no email and no default address and
// issues a session token so the client is logged in right away.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:            ulid.Make().String(),
		Username:      input.Username,
		Mobile:        input.Mobile,
		PasswordHash:  hash,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, "", ErrUsernameTaken
		case errors.Is(err, repository.ErrMobileExists):
			return nil, "", ErrMobileTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.NewSessionToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, token, nil
}

// GetUser returns the user's profile.
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// LoginInput defines input for credential login.
type LoginInput struct {
	Username    string
	Password    string
	GuestCartID string
}

// Login verifies the credentials and issues a session token. On success the
// post-login hook merges any guest cart into the user's cart; a hook
// failure is logged but does not fail the login.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*model.User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginAttempt("failed")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	match, err := auth.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginAttempt("failed")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.NewSessionToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	if s.postLogin != nil {
		if err := s.postLogin.OnSuccessfulLogin(ctx, user.ID, input.GuestCartID); err != nil {
			s.logger.Warn("post-login hook failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	s.metrics.IncLoginAttempt("success")

	return user, token, nil
}

// UpdateEmail sets the user's email and sends a verification mail with a
// time-limited token. Changing the address resets the verified flag.
func (s *UserService) UpdateEmail(ctx context.Context, userID, email string) error {
	if err := s.repo.UpdateEmail(ctx, userID, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := s.tokens.NewEmailVerifyToken(userID, email)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	s.mailer.SendAsync(mail.VerificationMessage(email, s.verifyBaseURL, token))

	return nil
}

// VerifyEmail validates a verification token and flips the user's
// email_verified flag. An invalid, expired, or stale token (the user has
// since changed their email) leaves all state untouched.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	userID, email, err := s.tokens.ParseEmailVerifyToken(token)
	if err != nil {
		return ErrInvalidVerifyToken
	}

	if err := s.repo.MarkEmailVerified(ctx, userID, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidVerifyToken
		}
		return err
	}

	s.metrics.IncEmailVerified()

	return nil
}
