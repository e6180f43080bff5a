// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package post owns the post lifecycle: validation, slug derivation,
// publish-timestamp assignment, dual-mode lookup, and published listings.
package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"inkwell/internal/store"
	"inkwell/internal/util"
)

// Validation messages
const (
	msgTitleRequired    = "Title is required"
	msgCategoryRequired = "Category is required"
	msgSlugRequired     = "Slug is required"
	msgSlugFormat       = "Invalid slug format (use lowercase letters, numbers, and hyphens)"
	msgSlugTaken        = "Slug already exists"
)

// Input carries the caller-supplied attributes for a create or update.
type Input struct {
	Title    string
	Slug     string // derived from Title when blank
	Excerpt  string
	Category string
	BodyHTML string // sanitized before persistence

	Published bool
	// PublishedAt, when non-nil, is stored as given. The publish flag and
	// timestamp are deliberately not cross-validated.
	PublishedAt *time.Time
}

// Service enforces the post lifecycle rules on every save.
type Service struct {
	db        *sql.DB
	queries   *store.Queries
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewService creates a Service on top of the given database.
func NewService(db *sql.DB) *Service {
	return &Service{
		db:        db,
		queries:   store.New(db),
		sanitizer: bluemonday.UGCPolicy(),
		now:       time.Now,
	}
}

// Create validates and persists a new post together with its rich-text
// body in one transaction. The author is assigned once here and is not
// re-assignable through updates. Returns ValidationErrors on invalid input
// and never partially persists.
func (s *Service) Create(ctx context.Context, input Input, authorID int64) (store.Post, error) {
	title := strings.TrimSpace(input.Title)
	slug := strings.TrimSpace(input.Slug)
	if slug == "" && title != "" {
		slug = util.Slugify(title)
	}

	candidate := store.Post{
		Title:    title,
		Slug:     slug,
		Category: strings.TrimSpace(input.Category),
	}
	if verrs := s.Validate(ctx, candidate, 0); len(verrs) > 0 {
		return store.Post{}, verrs
	}

	now := s.now()
	publishedAt := nullTime(input.PublishedAt)
	publishedAt = AssignPublishTimestamp(input.Published, publishedAt, now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Post{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)
	created, err := q.CreatePost(ctx, store.CreatePostParams{
		Title:       title,
		Slug:        slug,
		Excerpt:     strings.TrimSpace(input.Excerpt),
		Category:    candidate.Category,
		Published:   input.Published,
		PublishedAt: publishedAt,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return store.Post{}, s.translateSaveError(err)
	}

	if _, err := q.UpsertPostBody(ctx, store.UpsertPostBodyParams{
		PostID:    created.ID,
		HTML:      s.sanitizer.Sanitize(input.BodyHTML),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return store.Post{}, fmt.Errorf("saving post body: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return store.Post{}, fmt.Errorf("committing post: %w", err)
	}

	return created, nil
}

// Update validates and persists changes to an existing post and its body.
// The publish timestamp is assigned on the first transition to published
// and never auto-overwritten afterwards.
func (s *Service) Update(ctx context.Context, existing store.Post, input Input) (store.Post, error) {
	title := strings.TrimSpace(input.Title)
	slug := strings.TrimSpace(input.Slug)
	if slug == "" && title != "" {
		slug = util.Slugify(title)
	}

	candidate := store.Post{
		Title:    title,
		Slug:     slug,
		Category: strings.TrimSpace(input.Category),
	}
	if verrs := s.Validate(ctx, candidate, existing.ID); len(verrs) > 0 {
		return store.Post{}, verrs
	}

	now := s.now()
	publishedAt := existing.PublishedAt
	if input.PublishedAt != nil {
		publishedAt = nullTime(input.PublishedAt)
	}
	publishedAt = AssignPublishTimestamp(input.Published, publishedAt, now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Post{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)
	updated, err := q.UpdatePost(ctx, store.UpdatePostParams{
		ID:          existing.ID,
		Title:       title,
		Slug:        slug,
		Excerpt:     strings.TrimSpace(input.Excerpt),
		Category:    candidate.Category,
		Published:   input.Published,
		PublishedAt: publishedAt,
		UpdatedAt:   now,
	})
	if err != nil {
		return store.Post{}, s.translateSaveError(err)
	}

	if _, err := q.UpsertPostBody(ctx, store.UpsertPostBodyParams{
		PostID:    existing.ID,
		HTML:      s.sanitizer.Sanitize(input.BodyHTML),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return store.Post{}, fmt.Errorf("saving post body: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return store.Post{}, fmt.Errorf("committing post: %w", err)
	}

	return updated, nil
}

// Delete removes a post. The rich-text body row is cascade-deleted by the
// storage layer.
func (s *Service) Delete(ctx context.Context, p store.Post) error {
	if err := s.queries.DeletePost(ctx, p.ID); err != nil {
		return fmt.Errorf("deleting post %d: %w", p.ID, err)
	}
	return nil
}

// Resolve looks up a post by public identifier: slug match first, then
// identifier-as-id. Public links use slugs while some internal links use
// raw ids, so both shapes resolve. Returns ErrNotFound when neither does.
func (s *Service) Resolve(ctx context.Context, identifier string) (store.Post, error) {
	p, err := s.queries.GetPostBySlug(ctx, identifier)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return store.Post{}, fmt.Errorf("resolving %q by slug: %w", identifier, err)
	}

	id, perr := strconv.ParseInt(identifier, 10, 64)
	if perr != nil {
		return store.Post{}, ErrNotFound
	}

	p, err = s.queries.GetPostByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Post{}, ErrNotFound
	}
	if err != nil {
		return store.Post{}, fmt.Errorf("resolving %q by id: %w", identifier, err)
	}
	return p, nil
}

// ListPublished returns published posts ordered by publish time descending,
// most recent first. Posts with no publish timestamp sort last; the
// ordering is deterministic (see store.ListPublishedPosts).
func (s *Service) ListPublished(ctx context.Context, limit, offset int64) ([]store.Post, error) {
	posts, err := s.queries.ListPublishedPosts(ctx, store.ListPublishedPostsParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listing published posts: %w", err)
	}
	return posts, nil
}

// Body fetches the rich-text body owned by a post.
func (s *Service) Body(ctx context.Context, postID int64) (store.PostBody, error) {
	body, err := s.queries.GetPostBody(ctx, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.PostBody{}, ErrNotFound
	}
	if err != nil {
		return store.PostBody{}, fmt.Errorf("loading post body: %w", err)
	}
	return body, nil
}

// Validate checks the save rules: title present, category present, slug
// present, well-formed, and unique across all posts other than excludeID
// (pass 0 for creates). Returns an empty map when the post is valid.
func (s *Service) Validate(ctx context.Context, p store.Post, excludeID int64) ValidationErrors {
	verrs := make(ValidationErrors)

	if p.Title == "" {
		verrs["title"] = msgTitleRequired
	}
	if p.Category == "" {
		verrs["category"] = msgCategoryRequired
	}

	switch {
	case p.Slug == "":
		verrs["slug"] = msgSlugRequired
	case !util.IsValidSlug(p.Slug):
		verrs["slug"] = msgSlugFormat
	default:
		var (
			count int64
			err   error
		)
		if excludeID > 0 {
			count, err = s.queries.SlugExistsExcluding(ctx, store.SlugExistsExcludingParams{
				Slug: p.Slug,
				ID:   excludeID,
			})
		} else {
			count, err = s.queries.SlugExists(ctx, p.Slug)
		}
		if err != nil {
			verrs["slug"] = "Error checking slug"
		} else if count != 0 {
			verrs["slug"] = msgSlugTaken
		}
	}

	return verrs
}

// AssignPublishTimestamp returns the publish timestamp a post should carry:
// when published and no timestamp is set, the current time; otherwise the
// timestamp is left untouched. Idempotent, and never clears a value, so a
// timestamp on an unpublished post is preserved as-is.
func AssignPublishTimestamp(published bool, publishedAt sql.NullTime, now time.Time) sql.NullTime {
	if published && !publishedAt.Valid {
		return sql.NullTime{Time: now, Valid: true}
	}
	return publishedAt
}

// translateSaveError re-expresses a race-lost duplicate-slug write as the
// same field-level validation error a synchronous uniqueness check would
// have produced. The unique index is the authoritative guard; the check
// before save can lose to a concurrent writer.
func (s *Service) translateSaveError(err error) error {
	if isUniqueConstraint(err) {
		return ValidationErrors{"slug": msgSlugTaken}
	}
	return fmt.Errorf("saving post: %w", err)
}

func isUniqueConstraint(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
