package store

import (
	"context"
	"database/sql"
	"time"
)

const postColumns = `id, title, slug, excerpt, category, published, published_at, author_id, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Category,
		&p.Published, &p.PublishedAt, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const createPost = `
INSERT INTO posts (title, slug, excerpt, category, published, published_at, author_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

// CreatePostParams holds the parameters for CreatePost.
type CreatePostParams struct {
	Title       string
	Slug        string
	Excerpt     string
	Category    string
	Published   bool
	PublishedAt sql.NullTime
	AuthorID    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePost inserts a new post and returns the created row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Title, arg.Slug, arg.Excerpt, arg.Category, arg.Published,
		arg.PublishedAt, arg.AuthorID, arg.CreatedAt, arg.UpdatedAt)
	return scanPost(row)
}

const updatePost = `
UPDATE posts
SET title = ?, slug = ?, excerpt = ?, category = ?, published = ?, published_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + postColumns

// UpdatePostParams holds the parameters for UpdatePost.
// The author is assigned at creation and is not updatable.
type UpdatePostParams struct {
	ID          int64
	Title       string
	Slug        string
	Excerpt     string
	Category    string
	Published   bool
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
}

// UpdatePost updates an existing post and returns the updated row.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.Title, arg.Slug, arg.Excerpt, arg.Category, arg.Published,
		arg.PublishedAt, arg.UpdatedAt, arg.ID)
	return scanPost(row)
}

const deletePost = `DELETE FROM posts WHERE id = ?`

// DeletePost removes a post. The post body row is cascade-deleted by the
// foreign key constraint.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

const getPostByID = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

// GetPostByID fetches a post by primary key.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id))
}

const getPostBySlug = `SELECT ` + postColumns + ` FROM posts WHERE slug = ?`

// GetPostBySlug fetches a post by its slug.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostBySlug, slug))
}

const slugExists = `SELECT COUNT(*) FROM posts WHERE slug = ?`

// SlugExists returns the number of posts carrying the given slug.
func (q *Queries) SlugExists(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, slugExists, slug).Scan(&n)
	return n, err
}

const slugExistsExcluding = `SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?`

// SlugExistsExcludingParams holds the parameters for SlugExistsExcluding.
type SlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// SlugExistsExcluding returns the number of posts other than the given one
// carrying the slug. Used when validating updates.
func (q *Queries) SlugExistsExcluding(ctx context.Context, arg SlugExistsExcludingParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, slugExistsExcluding, arg.Slug, arg.ID).Scan(&n)
	return n, err
}

const listPosts = `
SELECT ` + postColumns + ` FROM posts
ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?
`

// ListPostsParams holds pagination parameters for ListPosts.
type ListPostsParams struct {
	Limit  int64
	Offset int64
}

// ListPosts returns posts for the admin list, most recently updated first.
func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]Post, error) {
	return q.queryPosts(ctx, listPosts, arg.Limit, arg.Offset)
}

// ListPublishedPosts returns published posts ordered by published_at
// descending. SQLite sorts NULL as the smallest value, so posts with a
// NULL published_at deterministically sort last; ties break by id descending.
const listPublishedPosts = `
SELECT ` + postColumns + ` FROM posts
WHERE published = 1
ORDER BY published_at DESC, id DESC LIMIT ? OFFSET ?
`

// ListPublishedPostsParams holds pagination parameters for ListPublishedPosts.
type ListPublishedPostsParams struct {
	Limit  int64
	Offset int64
}

// ListPublishedPosts returns published posts, most recently published first.
func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) ([]Post, error) {
	return q.queryPosts(ctx, listPublishedPosts, arg.Limit, arg.Offset)
}

const countPosts = `SELECT COUNT(*) FROM posts`

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&n)
	return n, err
}

const countPublishedPosts = `SELECT COUNT(*) FROM posts WHERE published = 1`

// CountPublishedPosts returns the number of published posts.
func (q *Queries) CountPublishedPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPublishedPosts).Scan(&n)
	return n, err
}

func (q *Queries) queryPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

const upsertPostBody = `
INSERT INTO post_bodies (post_id, html, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (post_id) DO UPDATE SET html = excluded.html, updated_at = excluded.updated_at
RETURNING post_id, html, created_at, updated_at
`

// UpsertPostBodyParams holds the parameters for UpsertPostBody.
type UpsertPostBodyParams struct {
	PostID    int64
	HTML      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertPostBody creates or replaces the rich-text body owned by a post.
func (q *Queries) UpsertPostBody(ctx context.Context, arg UpsertPostBodyParams) (PostBody, error) {
	row := q.db.QueryRowContext(ctx, upsertPostBody,
		arg.PostID, arg.HTML, arg.CreatedAt, arg.UpdatedAt)
	var b PostBody
	err := row.Scan(&b.PostID, &b.HTML, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

const getPostBody = `
SELECT post_id, html, created_at, updated_at FROM post_bodies WHERE post_id = ?
`

// GetPostBody fetches the rich-text body owned by a post.
func (q *Queries) GetPostBody(ctx context.Context, postID int64) (PostBody, error) {
	row := q.db.QueryRowContext(ctx, getPostBody, postID)
	var b PostBody
	err := row.Scan(&b.PostID, &b.HTML, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
