//go:build integration

package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mallfront/mallfront/internal/auth"
	"github.com/mallfront/mallfront/internal/mail"
	"github.com/mallfront/mallfront/internal/metrics"
	"github.com/mallfront/mallfront/internal/repository"
	"github.com/mallfront/mallfront/internal/testutil"
)

// ============================================================================
// User Service Integration Tests
// ============================================================================

func TestIntegrationUserService_RegisterAndLogin(t *testing.T) {
	ctx, svc, _ := newUserServiceTestEnv(t)

	user, token, err := svc.Register(ctx, RegisterInput{
		Username: "new_customer",
		Mobile:   testutil.UniqueMobile(),
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, token, "registration should log the user in")

	// Duplicate username
	_, _, err = svc.Register(ctx, RegisterInput{
		Username: "new_customer",
		Mobile:   testutil.UniqueMobile(),
		Password: "another-pass",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	// Availability counts reflect the registration
	count, err := svc.UsernameCount(ctx, "new_customer")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = svc.MobileCount(ctx, user.Mobile)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Login with the right password
	loggedIn, token, err := svc.Login(ctx, LoginInput{
		Username: "new_customer",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	// Wrong password and unknown user both report the same error
	_, _, err = svc.Login(ctx, LoginInput{Username: "new_customer", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Username: "ghost", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIntegrationUserService_EmailVerification(t *testing.T) {
	ctx, svc, tokens := newUserServiceTestEnv(t)

	user, _, err := svc.Register(ctx, RegisterInput{
		Username: "mail_customer",
		Mobile:   testutil.UniqueMobile(),
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateEmail(ctx, user.ID, "customer@example.com"))

	fetched, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "customer@example.com", fetched.Email)
	require.False(t, fetched.EmailVerified)

	// A token for the current address verifies the email
	token, err := tokens.NewEmailVerifyToken(user.ID, "customer@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(ctx, token))

	fetched, err = svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, fetched.EmailVerified)

	// A token for a stale address is rejected and changes nothing
	stale, err := tokens.NewEmailVerifyToken(user.ID, "old@example.com")
	require.NoError(t, err)
	require.ErrorIs(t, svc.VerifyEmail(ctx, stale), ErrInvalidVerifyToken)

	// Garbage is rejected too
	require.ErrorIs(t, svc.VerifyEmail(ctx, "not-a-token"), ErrInvalidVerifyToken)

	// Changing the address drops verification again
	require.NoError(t, svc.UpdateEmail(ctx, user.ID, "new@example.com"))
	fetched, err = svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, fetched.EmailVerified)
}

func TestIntegrationAddressService_Flow(t *testing.T) {
	ctx, svc, _ := newUserServiceTestEnv(t)

	user, _, err := svc.Register(ctx, RegisterInput{
		Username: "addr_customer",
		Mobile:   testutil.UniqueMobile(),
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	addrSvc := NewAddressService(svc.repo, 2, metrics.NewNoop())

	input := CreateAddressInput{
		Title:    "Home",
		Receiver: "A Customer",
		Province: "Province",
		City:     "City",
		District: "District",
		Place:    "1 Main Street",
		Mobile:   "13800000000",
	}

	first, err := addrSvc.Create(ctx, user.ID, input)
	require.NoError(t, err)

	input.Title = "Work"
	second, err := addrSvc.Create(ctx, user.ID, input)
	require.NoError(t, err)

	// Cap of 2 is enforced
	input.Title = "Overflow"
	_, err = addrSvc.Create(ctx, user.ID, input)
	require.ErrorIs(t, err, ErrAddressLimit)

	require.NoError(t, addrSvc.SetDefault(ctx, user.ID, first.ID))

	book, err := addrSvc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, book.Addresses, 2)
	require.NotNil(t, book.DefaultAddressID)
	require.Equal(t, first.ID, *book.DefaultAddressID)
	require.Equal(t, 2, book.Limit)

	// Rename keeps the rest of the record
	renamed, err := addrSvc.RenameTitle(ctx, user.ID, second.ID, "Office")
	require.NoError(t, err)
	require.Equal(t, "Office", renamed.Title)
	require.Equal(t, second.Receiver, renamed.Receiver)

	// Deleting the default clears the reference and frees a slot
	require.NoError(t, addrSvc.Delete(ctx, user.ID, first.ID))

	book, err = addrSvc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, book.Addresses, 1)
	require.Nil(t, book.DefaultAddressID)

	input.Title = "Replacement"
	_, err = addrSvc.Create(ctx, user.ID, input)
	require.NoError(t, err)

	// Double delete reports not found
	require.ErrorIs(t, addrSvc.Delete(ctx, user.ID, first.ID), ErrAddressNotFound)
}

// newUserServiceTestEnv builds a UserService on a reset database.
func newUserServiceTestEnv(t *testing.T) (context.Context, *UserService, *auth.TokenManager) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager([]byte("test-secret"), time.Hour, time.Hour)
	mailer := mail.NewDispatcher(mail.NewLogSender(logger), logger, metrics.NewNoop())
	t.Cleanup(func() {
		_ = mailer.Shutdown(ctx)
	})

	svc := NewUserService(repo, tokens, mailer, nil, "http://localhost:8080", logger, metrics.NewNoop())
	return ctx, svc, tokens
}
