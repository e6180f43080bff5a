// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/middleware"
	"inkwell/internal/post"
	"inkwell/internal/render"
	"inkwell/internal/store"
)

// HomePerPage is the number of posts shown per public listing page.
const HomePerPage = 10

// PostView is a post with computed fields for template rendering.
type PostView struct {
	ID                   int64
	Title                string
	Slug                 string
	Excerpt              string
	Category             string
	URL                  string
	Body                 template.HTML
	PublishedAt          *time.Time
	PublishedAtFormatted string
}

// FrontendHandler handles the public routes.
type FrontendHandler struct {
	queries  *store.Queries
	service  *post.Service
	renderer *render.Renderer
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{
		queries:  store.New(db),
		service:  post.NewService(db),
		renderer: renderer,
	}
}

// HomeData holds data for the homepage template.
type HomeData struct {
	Posts       []PostView
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
}

// Home handles GET / with the published posts, newest first.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	totalCount, err := h.queries.CountPublishedPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count published posts", "error", err)
		return
	}

	totalPages := int((totalCount + HomePerPage - 1) / HomePerPage)
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	posts, err := h.service.ListPublished(r.Context(), HomePerPage, int64((page-1)*HomePerPage))
	if err != nil {
		logAndInternalError(w, "failed to list published posts", "error", err)
		return
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postToView(p, ""))
	}

	data := HomeData{
		Posts:       views,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}

	if err := h.renderer.Render(w, r, "frontend/home", render.TemplateData{
		Title: "Home",
		User:  middleware.GetUser(r),
		Theme: resolveTheme(w, r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Post handles GET /posts/{identifier}. The identifier is resolved as a slug
// first, then as a numeric ID. Unpublished posts are visible to logged-in
// editors only.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	p, err := h.service.Resolve(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to resolve post", "error", err, "identifier", identifier)
		return
	}

	if !p.Published && middleware.GetUser(r) == nil {
		h.NotFound(w, r)
		return
	}

	body, err := h.service.Body(r.Context(), p.ID)
	if err != nil && !errors.Is(err, post.ErrNotFound) {
		logAndInternalError(w, "failed to load post body", "error", err, "post_id", p.ID)
		return
	}

	if err := h.renderer.Render(w, r, "frontend/post", render.TemplateData{
		Title: p.Title,
		User:  middleware.GetUser(r),
		Theme: resolveTheme(w, r),
		Data:  postToView(p, body.HTML),
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "frontend/404", render.TemplateData{
		Title: "Not Found",
		Theme: resolveTheme(w, r),
	}); err != nil {
		slog.Error("render error", "error", err)
	}
}

// postToView converts a store.Post for template rendering. The body HTML is
// sanitized at write time, so it is safe to mark trusted here.
func postToView(p store.Post, bodyHTML string) PostView {
	view := PostView{
		ID:       p.ID,
		Title:    p.Title,
		Slug:     p.Slug,
		Excerpt:  p.Excerpt,
		Category: p.Category,
		URL:      "/posts/" + p.Slug,
		Body:     template.HTML(bodyHTML),
	}
	if p.PublishedAt.Valid {
		t := p.PublishedAt.Time
		view.PublishedAt = &t
		view.PublishedAtFormatted = t.Format("Jan 2, 2006")
	}
	return view
}
