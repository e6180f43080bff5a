// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"inkwell/internal/middleware"
	"inkwell/internal/render"
	"inkwell/internal/store"
)

// EventsPerPage is the number of event log entries shown.
const EventsPerPage = 50

// EventsHandler shows the application event log.
type EventsHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *EventsHandler {
	return &EventsHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// List handles GET /admin/events with the most recent entries.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListRecentEvents(r.Context(), EventsPerPage)
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/events_list", render.TemplateData{
		Title:     "Event Log",
		User:      middleware.GetUser(r),
		Theme:     resolveTheme(w, r),
		CSRFToken: h.sessionManager.Token(r.Context()),
		Data:      events,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
