//go:build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/qrforge/qrforge/internal/testutil"
)

func TestIntegrationQRCodeRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, "owner@example.com")
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	qr := testutil.NewTestQRCode(t, owner.ID, "homepage")
	if err := repo.CreateQRCode(ctx, qr); err != nil {
		t.Fatalf("CreateQRCode failed: %v", err)
	}

	retrieved, err := repo.GetQRCode(ctx, qr.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetQRCode failed: %v", err)
	}

	if retrieved.Content != qr.Content {
		t.Errorf("Content mismatch: got %q, want %q", retrieved.Content, qr.Content)
	}
	if retrieved.ImageData != qr.ImageData {
		t.Error("ImageData mismatch")
	}
	if retrieved.Format != qr.Format {
		t.Errorf("Format mismatch: got %q, want %q", retrieved.Format, qr.Format)
	}
	if retrieved.ErrorCorrectionLevel != qr.ErrorCorrectionLevel {
		t.Errorf("ErrorCorrectionLevel mismatch: got %q, want %q",
			retrieved.ErrorCorrectionLevel, qr.ErrorCorrectionLevel)
	}
}

func TestIntegrationQRCodeRepository_OwnershipScoping(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, "owner@example.com")
	stranger := testutil.NewTestUser(t, "stranger@example.com")
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.CreateUser(ctx, stranger); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	qr := testutil.NewTestQRCode(t, owner.ID, "private")
	if err := repo.CreateQRCode(ctx, qr); err != nil {
		t.Fatalf("CreateQRCode failed: %v", err)
	}

	// A different user must get the same error as an unknown ID.
	if _, err := repo.GetQRCode(ctx, qr.ID, stranger.ID); !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("foreign get: expected ErrQRCodeNotFound, got: %v", err)
	}
	if _, err := repo.GetQRCode(ctx, "nonexistent", stranger.ID); !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("unknown get: expected ErrQRCodeNotFound, got: %v", err)
	}

	// Conditional update and delete must not touch foreign rows.
	foreign := *qr
	foreign.UserID = stranger.ID
	foreign.Name = "hijacked"
	if err := repo.UpdateQRCode(ctx, &foreign); !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("foreign update: expected ErrQRCodeNotFound, got: %v", err)
	}
	if err := repo.DeleteQRCode(ctx, qr.ID, stranger.ID); !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("foreign delete: expected ErrQRCodeNotFound, got: %v", err)
	}

	// The original record is untouched.
	kept, err := repo.GetQRCode(ctx, qr.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetQRCode after foreign mutations failed: %v", err)
	}
	if kept.Name != qr.Name {
		t.Errorf("Name changed by foreign update: got %q, want %q", kept.Name, qr.Name)
	}
}

func TestIntegrationQRCodeRepository_Update(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, "owner@example.com")
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	qr := testutil.NewTestQRCode(t, owner.ID, "before")
	if err := repo.CreateQRCode(ctx, qr); err != nil {
		t.Fatalf("CreateQRCode failed: %v", err)
	}

	qr.Name = "after"
	qr.Content = "https://example.com/after"
	qr.ImageData = "data:image/png;base64,YWZ0ZXI="
	qr.UpdatedAt = time.Now().UTC()

	if err := repo.UpdateQRCode(ctx, qr); err != nil {
		t.Fatalf("UpdateQRCode failed: %v", err)
	}

	retrieved, err := repo.GetQRCode(ctx, qr.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetQRCode failed: %v", err)
	}
	if retrieved.Name != "after" {
		t.Errorf("Name mismatch: got %q, want after", retrieved.Name)
	}
	if retrieved.ImageData != qr.ImageData {
		t.Error("ImageData not updated")
	}
}

func TestIntegrationQRCodeRepository_Delete(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, "owner@example.com")
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	qr := testutil.NewTestQRCode(t, owner.ID, "doomed")
	if err := repo.CreateQRCode(ctx, qr); err != nil {
		t.Fatalf("CreateQRCode failed: %v", err)
	}

	if err := repo.DeleteQRCode(ctx, qr.ID, owner.ID); err != nil {
		t.Fatalf("DeleteQRCode failed: %v", err)
	}

	if _, err := repo.GetQRCode(ctx, qr.ID, owner.ID); !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("expected ErrQRCodeNotFound after delete, got: %v", err)
	}

	// Deleting again reports not found.
	if err := repo.DeleteQRCode(ctx, qr.ID, owner.ID); !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("expected ErrQRCodeNotFound on second delete, got: %v", err)
	}
}

func TestIntegrationQRCodeRepository_ListOrdering(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, "owner@example.com")
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	names := []string{"oldest", "middle", "newest"}
	for i, name := range names {
		qr := testutil.NewTestQRCode(t, owner.ID, name)
		qr.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		qr.UpdatedAt = qr.CreatedAt
		if err := repo.CreateQRCode(ctx, qr); err != nil {
			t.Fatalf("CreateQRCode failed: %v", err)
		}
	}

	list, err := repo.ListQRCodesByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListQRCodesByUser failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}

	// Most recent first.
	want := []string{"newest", "middle", "oldest"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("list[%d].Name = %q, want %q", i, list[i].Name, name)
		}
	}
}
