// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"inkwell/internal/middleware"
	"inkwell/internal/post"
	"inkwell/internal/render"
	"inkwell/internal/store"
)

// PostsPerPage is the number of posts shown per admin list page.
const PostsPerPage = 10

// PostsHandler handles post management routes.
type PostsHandler struct {
	queries        *store.Queries
	service        *post.Service
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *PostsHandler {
	return &PostsHandler{
		queries:        store.New(db),
		service:        post.NewService(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// PostsListData holds data for the posts list template.
type PostsListData struct {
	Posts       []store.Post
	CurrentPage int
	TotalPages  int
	TotalCount  int64
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
}

// List handles GET /admin/posts.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	totalCount, err := h.queries.CountPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count posts", "error", err)
		return
	}

	totalPages := int((totalCount + PostsPerPage - 1) / PostsPerPage)
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	posts, err := h.queries.ListPosts(r.Context(), store.ListPostsParams{
		Limit:  PostsPerPage,
		Offset: int64((page - 1) * PostsPerPage),
	})
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	data := PostsListData{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}

	if err := h.renderer.Render(w, r, "admin/posts_list", render.TemplateData{
		Title:     "Posts",
		User:      user,
		Theme:     resolveTheme(w, r),
		CSRFToken: h.sessionManager.Token(r.Context()),
		Data:      data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// PostFormData holds data for the post form template.
type PostFormData struct {
	Post       *store.Post
	Errors     map[string]string
	FormValues map[string]string
	IsEdit     bool
}

// NewForm handles GET /admin/posts/new.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, PostFormData{
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	}, "New Post")
}

// Create handles POST /admin/posts.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	input, formValues, ok := h.parseForm(w, r, "/admin/posts/new")
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), input, user.ID)
	if err != nil {
		if verrs, isValidation := post.AsValidationErrors(err); isValidation {
			h.renderForm(w, r, PostFormData{
				Errors:     verrs,
				FormValues: formValues,
			}, "New Post")
			return
		}
		slog.Error("failed to create post", "error", err)
		flashError(w, r, h.renderer, "/admin/posts/new", "Error creating post")
		return
	}

	slog.Info("post created", "post_id", created.ID, "slug", created.Slug, "created_by", user.ID)
	flashAndRedirect(w, r, h.renderer, redirectAdmin, "Post created successfully", "success")
}

// EditForm handles GET /admin/posts/{id}.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	body, err := h.service.Body(r.Context(), existing.ID)
	if err != nil && !errors.Is(err, post.ErrNotFound) {
		logAndInternalError(w, "failed to load post body", "error", err, "post_id", existing.ID)
		return
	}

	formValues := map[string]string{
		"title":    existing.Title,
		"slug":     existing.Slug,
		"excerpt":  existing.Excerpt,
		"category": existing.Category,
		"body":     body.HTML,
	}
	if existing.Published {
		formValues["published"] = "on"
	}

	h.renderForm(w, r, PostFormData{
		Post:       &existing,
		Errors:     make(map[string]string),
		FormValues: formValues,
		IsEdit:     true,
	}, "Edit Post")
}

// Update handles POST /admin/posts/{id}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	existing, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	input, formValues, parsed := h.parseForm(w, r, "/admin/posts/"+strconv.FormatInt(existing.ID, 10))
	if !parsed {
		return
	}

	updated, err := h.service.Update(r.Context(), existing, input)
	if err != nil {
		if verrs, isValidation := post.AsValidationErrors(err); isValidation {
			h.renderForm(w, r, PostFormData{
				Post:       &existing,
				Errors:     verrs,
				FormValues: formValues,
				IsEdit:     true,
			}, "Edit Post")
			return
		}
		slog.Error("failed to update post", "error", err, "post_id", existing.ID)
		flashError(w, r, h.renderer, redirectAdmin, "Error updating post")
		return
	}

	slog.Info("post updated", "post_id", updated.ID, "slug", updated.Slug, "updated_by", user.ID)
	flashAndRedirect(w, r, h.renderer, redirectAdmin, "Post updated successfully", "success")
}

// Delete handles POST /admin/posts/{id}/delete.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	existing, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), existing); err != nil {
		slog.Error("failed to delete post", "error", err, "post_id", existing.ID)
		flashError(w, r, h.renderer, redirectAdmin, "Error deleting post")
		return
	}

	slog.Info("post deleted", "post_id", existing.ID, "slug", existing.Slug, "deleted_by", user.ID)
	flashAndRedirect(w, r, h.renderer, redirectAdmin, "Post deleted successfully", "success")
}

// TogglePublish handles POST /admin/posts/{id}/publish. Publishing stamps
// the publish timestamp only on the first transition; republishing keeps
// the original timestamp.
func (h *PostsHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	existing, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	body, err := h.service.Body(r.Context(), existing.ID)
	if err != nil && !errors.Is(err, post.ErrNotFound) {
		logAndInternalError(w, "failed to load post body", "error", err, "post_id", existing.ID)
		return
	}

	updated, err := h.service.Update(r.Context(), existing, post.Input{
		Title:     existing.Title,
		Slug:      existing.Slug,
		Excerpt:   existing.Excerpt,
		Category:  existing.Category,
		BodyHTML:  body.HTML,
		Published: !existing.Published,
	})
	if err != nil {
		slog.Error("failed to toggle publish status", "error", err, "post_id", existing.ID)
		flashError(w, r, h.renderer, redirectAdmin, "Error updating post status")
		return
	}

	message := "Post unpublished successfully"
	if updated.Published {
		message = "Post published successfully"
		slog.Info("post published", "post_id", updated.ID, "slug", updated.Slug, "published_by", user.ID)
	} else {
		slog.Info("post unpublished", "post_id", updated.ID, "slug", updated.Slug, "unpublished_by", user.ID)
	}

	flashAndRedirect(w, r, h.renderer, redirectAdmin, message, "success")
}

// loadPost reads the {id} URL parameter and fetches the post, handling the
// error responses. The second return value reports success.
func (h *PostsHandler) loadPost(w http.ResponseWriter, r *http.Request) (store.Post, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdmin, "Invalid post ID")
		return store.Post{}, false
	}

	p, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectAdmin, "Post not found")
		} else {
			slog.Error("failed to get post", "error", err, "post_id", id)
			flashError(w, r, h.renderer, redirectAdmin, "Error loading post")
		}
		return store.Post{}, false
	}

	return p, true
}

// parseForm extracts a post.Input from the submitted form. The returned map
// preserves raw values for re-rendering on validation failure.
func (h *PostsHandler) parseForm(w http.ResponseWriter, r *http.Request, errTarget string) (post.Input, map[string]string, bool) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, errTarget, "Invalid form data")
		return post.Input{}, nil, false
	}

	input := post.Input{
		Title:     r.FormValue("title"),
		Slug:      r.FormValue("slug"),
		Excerpt:   r.FormValue("excerpt"),
		Category:  r.FormValue("category"),
		BodyHTML:  r.FormValue("body"),
		Published: r.FormValue("published") != "",
	}

	formValues := map[string]string{
		"title":     input.Title,
		"slug":      input.Slug,
		"excerpt":   input.Excerpt,
		"category":  input.Category,
		"body":      input.BodyHTML,
		"published": r.FormValue("published"),
	}

	return input, formValues, true
}

func (h *PostsHandler) renderForm(w http.ResponseWriter, r *http.Request, data PostFormData, title string) {
	if err := h.renderer.Render(w, r, "admin/posts_form", render.TemplateData{
		Title:     title,
		User:      middleware.GetUser(r),
		Theme:     resolveTheme(w, r),
		CSRFToken: h.sessionManager.Token(r.Context()),
		Data:      data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
