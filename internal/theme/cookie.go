package theme

import (
	"net/http"
	"time"
)

// CookieStore is a PreferenceStore backed by an HTTP cookie, so the
// preference survives across requests. The cookie is deliberately not
// HttpOnly: the browser reads it before first paint to avoid a flash of
// the wrong theme.
type CookieStore struct {
	w http.ResponseWriter
	r *http.Request
}

// NewCookieStore creates a CookieStore bound to one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r}
}

// Get returns the stored preference, or "" when the cookie is absent.
func (s *CookieStore) Get(key string) (string, error) {
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", nil // no cookie is not an error
	}
	return c.Value, nil
}

// Set writes the preference cookie.
func (s *CookieStore) Set(key, value string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: false,
	})
	return nil
}

// Delete expires the preference cookie.
func (s *CookieStore) Delete(key string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
