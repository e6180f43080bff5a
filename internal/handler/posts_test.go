package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"inkwell/internal/middleware"
	"inkwell/internal/post"
	"inkwell/internal/store"
)

func adminServer(t *testing.T) (*chi.Mux, *sql.DB, store.User) {
	t.Helper()

	db := testDB(t)
	author := testAuthor(t, db, store.RoleAdmin)

	sm := scs.New()
	h := NewPostsHandler(db, testRenderer(t, sm), sm)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, author)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	r.Get("/admin/posts", h.List)
	r.Get("/admin/posts/new", h.NewForm)
	r.Post("/admin/posts", h.Create)
	r.Get("/admin/posts/{id}", h.EditForm)
	r.Post("/admin/posts/{id}", h.Update)
	r.Post("/admin/posts/{id}/delete", h.Delete)
	r.Post("/admin/posts/{id}/publish", h.TogglePublish)

	return r, db, author
}

func postForm(t *testing.T, r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminCreatePost(t *testing.T) {
	r, db, _ := adminServer(t)

	rec := postForm(t, r, "/admin/posts", url.Values{
		"title":    {"My First Post"},
		"category": {"general"},
		"body":     {"<p>Hi</p>"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303, body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/posts" {
		t.Errorf("Location = %q, want /admin/posts", loc)
	}

	created, err := store.New(db).GetPostBySlug(t.Context(), "my-first-post")
	if err != nil {
		t.Fatalf("post not created: %v", err)
	}
	if created.Published {
		t.Error("new post should start as a draft")
	}
}

func TestAdminCreateValidationRerendersForm(t *testing.T) {
	r, db, _ := adminServer(t)

	rec := postForm(t, r, "/admin/posts", url.Values{
		"title":   {""},
		"excerpt": {"kept value"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 re-render", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Title is required") {
		t.Error("form should show the title error")
	}
	if !strings.Contains(body, "kept value") {
		t.Error("form should preserve submitted values")
	}

	n, err := store.New(db).CountPosts(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("posts created = %d, want 0", n)
	}
}

func TestAdminTogglePublishKeepsFirstTimestamp(t *testing.T) {
	r, db, author := adminServer(t)

	svc := post.NewService(db)
	created, err := svc.Create(t.Context(), post.Input{
		Title: "Toggled", Category: "general",
	}, author.ID)
	if err != nil {
		t.Fatal(err)
	}

	target := "/admin/posts/" + strconv.FormatInt(created.ID, 10) + "/publish"

	rec := postForm(t, r, target, url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("publish status = %d, want 303", rec.Code)
	}

	q := store.New(db)
	published, err := q.GetPostByID(t.Context(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !published.Published {
		t.Fatal("post should be published")
	}
	if !published.PublishedAt.Valid {
		t.Fatal("publishing should stamp the publish time")
	}
	firstStamp := published.PublishedAt.Time

	// Unpublish, then publish again: the original timestamp survives
	postForm(t, r, target, url.Values{})
	postForm(t, r, target, url.Values{})

	republished, err := q.GetPostByID(t.Context(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !republished.Published {
		t.Fatal("post should be published again")
	}
	if !republished.PublishedAt.Time.Equal(firstStamp) {
		t.Errorf("republish changed the timestamp: %v != %v", republished.PublishedAt.Time, firstStamp)
	}
}

func TestAdminUpdateRejectsDuplicateSlug(t *testing.T) {
	r, db, author := adminServer(t)

	svc := post.NewService(db)
	if _, err := svc.Create(t.Context(), post.Input{
		Title: "First", Slug: "first", Category: "general",
	}, author.ID); err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(t.Context(), post.Input{
		Title: "Second", Slug: "second", Category: "general",
	}, author.ID)
	if err != nil {
		t.Fatal(err)
	}

	rec := postForm(t, r, "/admin/posts/"+strconv.FormatInt(second.ID, 10), url.Values{
		"title":    {"Second"},
		"slug":     {"first"},
		"category": {"general"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 re-render", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Slug already exists") {
		t.Error("form should show the slug collision error")
	}

	unchanged, err := store.New(db).GetPostByID(t.Context(), second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if unchanged.Slug != "second" {
		t.Errorf("slug = %q, want unchanged", unchanged.Slug)
	}
}

func TestAdminDeletePost(t *testing.T) {
	r, db, author := adminServer(t)

	svc := post.NewService(db)
	created, err := svc.Create(t.Context(), post.Input{
		Title: "Doomed", Category: "general", BodyHTML: "<p>x</p>",
	}, author.ID)
	if err != nil {
		t.Fatal(err)
	}

	rec := postForm(t, r, "/admin/posts/"+strconv.FormatInt(created.ID, 10)+"/delete", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	if _, err := store.New(db).GetPostByID(t.Context(), created.ID); err == nil {
		t.Error("post should be gone")
	}
}

func TestAdminListShowsPosts(t *testing.T) {
	r, db, author := adminServer(t)

	svc := post.NewService(db)
	if _, err := svc.Create(t.Context(), post.Input{
		Title: "Visible In List", Category: "general",
	}, author.ID); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Visible In List") {
		t.Error("list should contain the post title")
	}
}
