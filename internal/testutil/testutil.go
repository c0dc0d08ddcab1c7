// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/qrforge/qrforge/internal/model"
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

const advisoryLockID int64 = 730713

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

// ResetSchema drops and recreates all tables for tests. Migrations are
// applied in order; qrcodes references users so users comes first.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	// Down in reverse dependency order, up in forward order.
	downs := []string{"000002_qrcodes.down.sql", "000001_users.down.sql"}
	ups := []string{"000001_users.up.sql", "000002_qrcodes.up.sql"}

	for _, name := range downs {
		if err := applyMigration(ctx, pool, filepath.Join(root, "migrations", name)); err != nil {
			return err
		}
	}
	for _, name := range ups {
		if err := applyMigration(ctx, pool, filepath.Join(root, "migrations", name)); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filepath.Base(path), err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filepath.Base(path), err)
	}
	return nil
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

// NewTestUser creates a user with sensible defaults for tests.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: "$2a$04$not.a.real.hash.for.tests/AAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestQRCode creates a QR code record owned by userID with
// sensible defaults for tests.
func NewTestQRCode(t testing.TB, userID, name string) *model.QRCode {
	t.Helper()
	now := time.Now().UTC()
	return &model.QRCode{
		ID:                   ulid.Make().String(),
		UserID:               userID,
		Content:              "https://example.com/" + name,
		Name:                 name,
		Description:          "",
		ImageData:            "data:image/png;base64,dGVzdA==",
		Format:               model.DefaultFormat,
		Size:                 model.DefaultSize,
		ErrorCorrectionLevel: model.DefaultECLevel,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}
