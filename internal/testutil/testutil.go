// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mallfront/mallfront/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 520520

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates all application tables for tests.
// It replays every migration file: Down sections in reverse order,
// then Up sections in order.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	paths, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(paths)

	for i := len(paths) - 1; i >= 0; i-- {
		sql, err := migrationSection(paths[i], "Down")
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply down migration %s: %w", filepath.Base(paths[i]), err)
		}
	}

	for _, path := range paths {
		sql, err := migrationSection(path, "Up")
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply up migration %s: %w", filepath.Base(path), err)
		}
	}

	return nil
}

// migrationSection extracts the Up or Down statements from a goose
// migration file.
func migrationSection(path, direction string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read migration: %w", err)
	}

	marker := "-- +goose " + direction
	var section []string
	in := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-- +goose") {
			in = trimmed == marker
			continue
		}
		if in {
			section = append(section, line)
		}
	}

	if len(section) == 0 {
		return "", fmt.Errorf("migration %s has no %s section", filepath.Base(path), direction)
	}

	return strings.Join(section, "\n"), nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           fmt.Sprintf("user-%d", now.UnixNano()),
		Username:     username,
		Mobile:       UniqueMobile(),
		PasswordHash: fmt.Sprintf("hash-%d", now.UnixNano()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestAddress creates a test address owned by the given user.
func NewTestAddress(t testing.TB, userID, title string) *model.Address {
	t.Helper()
	now := time.Now().UTC()
	return &model.Address{
		ID:        fmt.Sprintf("addr-%d", now.UnixNano()),
		UserID:    userID,
		Title:     title,
		Receiver:  "Test Receiver",
		Province:  "Test Province",
		City:      "Test City",
		District:  "Test District",
		Place:     "1 Test Street",
		Mobile:    "13800000000",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UniqueMobile generates a unique well-formed mobile number for tests.
func UniqueMobile() string {
	return fmt.Sprintf("139%08d", time.Now().UnixNano()%100000000)
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
