// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"inkwell/internal/theme"
)

// ThemeHandler flips the UI theme preference.
type ThemeHandler struct{}

// NewThemeHandler creates a ThemeHandler.
func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

// Toggle handles POST /theme/toggle. It resolves the current theme from the
// preference cookie, flips it, persists the new value, and sends the user
// back where they came from.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	doc := theme.NewDocumentState("")
	prefs := theme.NewCookieStore(w, r)

	c := theme.NewController(doc, prefs)
	c.Init()
	c.Toggle()

	http.Redirect(w, r, safeReferer(r), http.StatusSeeOther)
}

// safeReferer returns the Referer path for same-site redirects, or the
// homepage when the header is absent or points elsewhere.
func safeReferer(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return RouteRoot
	}
	// Accept only path-shaped or same-host referers
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return ref
	}
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(ref, scheme+r.Host+"/") {
			return strings.TrimPrefix(ref, scheme+r.Host)
		}
		if ref == scheme+r.Host {
			return RouteRoot
		}
	}
	return RouteRoot
}
