// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/render"
	"inkwell/internal/theme"
)

// Common redirect targets.
const (
	RouteRoot     = "/"
	redirectLogin = "/login"
	redirectAdmin = "/admin/posts"
)

// flashAndRedirect sets a flash message and redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, target, message, flashType string) {
	renderer.SetFlash(r, message, flashType)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, target, message string) {
	flashAndRedirect(w, r, renderer, target, message, "error")
}

// logAndInternalError logs an error and responds with a plain 500.
func logAndInternalError(w http.ResponseWriter, msg string, args ...any) {
	slog.Error(msg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// resolveTheme runs the theme controller against the request's preference
// cookie and returns the active theme name. Legacy preference values are
// rewritten in the response as a side effect.
func resolveTheme(w http.ResponseWriter, r *http.Request) string {
	doc := theme.NewDocumentState("")
	prefs := theme.NewCookieStore(w, r)
	return theme.NewController(doc, prefs).Init()
}
