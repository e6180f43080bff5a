package seed

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"inkwell/internal/post"
	"inkwell/internal/store"
)

func testService(t *testing.T) (*post.Service, int64) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "inkwell-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	q := store.New(db)
	now := time.Now()
	author, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        "seeder@example.com",
		PasswordHash: "hash",
		Name:         "Seeder",
		Role:         store.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	return post.NewService(db), author.ID
}

func TestLoadDir(t *testing.T) {
	svc, authorID := testService(t)
	ctx := context.Background()

	created, err := LoadDir(ctx, svc, authorID, "testdata")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}

	// Front matter fields made it onto the post
	p, err := svc.Resolve(ctx, "welcome-to-inkwell")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Category != "announcements" {
		t.Errorf("Category = %q, want %q", p.Category, "announcements")
	}
	if !p.Published {
		t.Error("seeded post should be published")
	}
	wantDate := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	if !p.PublishedAt.Valid || !p.PublishedAt.Time.Equal(wantDate) {
		t.Errorf("PublishedAt = %v, want %v", p.PublishedAt, wantDate)
	}

	// Markdown body converted to HTML
	body, err := svc.Body(ctx, p.ID)
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	if want := "<strong>first</strong>"; !strings.Contains(body.HTML, want) {
		t.Errorf("body %q does not contain %q", body.HTML, want)
	}

	// Draft documents stay unpublished
	draft, err := svc.Resolve(ctx, "still-drafting")
	if err != nil {
		t.Fatalf("Resolve draft: %v", err)
	}
	if draft.Published {
		t.Error("draft document should not be published")
	}
}

func TestLoadDirIdempotent(t *testing.T) {
	svc, authorID := testService(t)
	ctx := context.Background()

	if _, err := LoadDir(ctx, svc, authorID, "testdata"); err != nil {
		t.Fatalf("first LoadDir: %v", err)
	}

	created, err := LoadDir(ctx, svc, authorID, "testdata")
	if err != nil {
		t.Fatalf("second LoadDir: %v", err)
	}
	if created != 0 {
		t.Errorf("second run created = %d, want 0", created)
	}
}
