//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/qrforge/qrforge/internal/model"
	"github.com/qrforge/qrforge/internal/testutil"
)

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}

func TestIntegrationPreviewCache_RoundTrip(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	key := PreviewKey("https://example.com", 300, model.ECLevelMedium, model.FormatPNG)

	if _, err := c.GetPreview(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got: %v", err)
	}

	artifact := "data:image/png;base64,dGVzdA=="
	if err := c.SetPreview(ctx, key, artifact); err != nil {
		t.Fatalf("SetPreview failed: %v", err)
	}

	got, err := c.GetPreview(ctx, key)
	if err != nil {
		t.Fatalf("GetPreview failed: %v", err)
	}
	if got != artifact {
		t.Errorf("artifact mismatch: got %q, want %q", got, artifact)
	}
}

func TestIntegrationIPRateLimit_Burst(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	const (
		rps   = 1
		burst = 3
	)

	// The full burst is allowed immediately.
	for i := 0; i < burst; i++ {
		result, err := c.CheckIPRateLimit(ctx, "203.0.113.7", rps, burst)
		if err != nil {
			t.Fatalf("CheckIPRateLimit failed: %v", err)
		}
		if !result.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	// The next request is rejected with a retry hint.
	result, err := c.CheckIPRateLimit(ctx, "203.0.113.7", rps, burst)
	if err != nil {
		t.Fatalf("CheckIPRateLimit failed: %v", err)
	}
	if result.Allowed {
		t.Error("request beyond burst should be rejected")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", result.RetryAfter)
	}
}

func TestIntegrationIPRateLimit_IsolatedPerIP(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	// Exhaust one IP's budget.
	for i := 0; i < 2; i++ {
		if _, err := c.CheckIPRateLimit(ctx, "198.51.100.1", 1, 2); err != nil {
			t.Fatalf("CheckIPRateLimit failed: %v", err)
		}
	}

	// A different IP still has a full bucket.
	result, err := c.CheckIPRateLimit(ctx, "198.51.100.2", 1, 2)
	if err != nil {
		t.Fatalf("CheckIPRateLimit failed: %v", err)
	}
	if !result.Allowed {
		t.Error("different IP should not share the bucket")
	}
}
