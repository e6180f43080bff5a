package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/theme"
)

func lastThemeCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == theme.PreferenceKey {
			found = c
		}
	}
	return found
}

func TestToggleWithoutPreferenceSwitchesToDark(t *testing.T) {
	h := NewThemeHandler()

	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	rec := httptest.NewRecorder()
	h.Toggle(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	c := lastThemeCookie(t, rec)
	if c == nil {
		t.Fatal("no theme cookie set")
	}
	if c.Value != theme.ThemeDark {
		t.Errorf("cookie = %q, want %q", c.Value, theme.ThemeDark)
	}
}

func TestToggleFlipsBackToClassic(t *testing.T) {
	h := NewThemeHandler()

	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	req.AddCookie(&http.Cookie{Name: theme.PreferenceKey, Value: theme.ThemeDark})
	rec := httptest.NewRecorder()
	h.Toggle(rec, req)

	c := lastThemeCookie(t, rec)
	if c == nil {
		t.Fatal("no theme cookie set")
	}
	if c.Value != theme.ThemeClassic {
		t.Errorf("cookie = %q, want %q", c.Value, theme.ThemeClassic)
	}
}

func TestToggleTreatsLegacyAliasAsDark(t *testing.T) {
	h := NewThemeHandler()

	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	req.AddCookie(&http.Cookie{Name: theme.PreferenceKey, Value: "midnight"})
	rec := httptest.NewRecorder()
	h.Toggle(rec, req)

	// midnight resolves to dark, so the toggle lands on classic
	c := lastThemeCookie(t, rec)
	if c == nil {
		t.Fatal("no theme cookie set")
	}
	if c.Value != theme.ThemeClassic {
		t.Errorf("cookie = %q, want %q", c.Value, theme.ThemeClassic)
	}
}

func TestToggleRedirectsToReferer(t *testing.T) {
	h := NewThemeHandler()

	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	req.Header.Set("Referer", "/posts/hello-world")
	rec := httptest.NewRecorder()
	h.Toggle(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/posts/hello-world" {
		t.Errorf("Location = %q, want /posts/hello-world", loc)
	}
}

func TestSafeReferer(t *testing.T) {
	tests := []struct {
		name    string
		referer string
		want    string
	}{
		{"absent", "", "/"},
		{"path", "/posts/a", "/posts/a"},
		{"protocol relative", "//evil.example/x", "/"},
		{"same host", "http://example.com/posts/a", "/posts/a"},
		{"other host", "https://evil.example/posts/a", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "http://example.com/theme/toggle", nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			if got := safeReferer(req); got != tt.want {
				t.Errorf("safeReferer(%q) = %q, want %q", tt.referer, got, tt.want)
			}
		})
	}
}
