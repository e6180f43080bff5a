package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"inkwell/internal/store"
)

func TestAuthRedirectsAnonymous(t *testing.T) {
	sm := scs.New()

	handler := sm.LoadAndSave(Auth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestAuthPassesAuthenticated(t *testing.T) {
	sm := scs.New()

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, int64(42))
		Auth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(w, r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestGetUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(req) != nil {
		t.Error("GetUser on empty context should return nil")
	}
	if GetUserID(req) != 0 {
		t.Error("GetUserID on empty context should return 0")
	}

	user := store.User{ID: 7, Email: "editor@example.com", Role: store.RoleEditor}
	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, user))

	got := GetUser(req)
	if got == nil || got.ID != 7 {
		t.Fatalf("GetUser = %+v, want ID 7", got)
	}
	if GetUserID(req) != 7 {
		t.Error("GetUserID should return 7")
	}
}

func TestRequireRoleHierarchy(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		userRole string
		minRole  string
		want     int
	}{
		{"admin passes admin gate", store.RoleAdmin, store.RoleAdmin, http.StatusOK},
		{"admin passes editor gate", store.RoleAdmin, store.RoleEditor, http.StatusOK},
		{"editor passes editor gate", store.RoleEditor, store.RoleEditor, http.StatusOK},
		{"editor fails admin gate", store.RoleEditor, store.RoleAdmin, http.StatusForbidden},
		{"unknown role fails", "viewer", store.RoleEditor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := store.User{ID: 1, Role: tt.userRole}
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, user))

			rec := httptest.NewRecorder()
			RequireRole(tt.minRole)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireRoleRedirectsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()

	RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
}
