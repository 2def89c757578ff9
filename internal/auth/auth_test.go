package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func protected(t *testing.T, p AuthProvider) http.Handler {
	t.Helper()
	return p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			t.Error("expected a user in the request context")
			return
		}
		w.Write([]byte(user.Username))
	}))
}

func login(t *testing.T, p AuthProvider) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	p.LoginHandler(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestMockAuthLoginGrantsAccess(t *testing.T) {
	m := NewMockAuth()
	h := protected(t, m)
	cookie := login(t, m)

	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "operator" {
		t.Errorf("expected operator, got %q", w.Body.String())
	}
}

func TestMiddlewareRejectsAnonymous(t *testing.T) {
	h := protected(t, NewMockAuth())

	tests := []struct {
		path     string
		wantCode int
	}{
		{"/api/draft/undo", http.StatusUnauthorized},
		{"/admin", http.StatusSeeOther},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))
		if w.Code != tt.wantCode {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.wantCode, w.Code)
		}
	}
}

func TestLogoutEndsSession(t *testing.T) {
	m := NewMockAuth()
	h := protected(t, m)
	cookie := login(t, m)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(cookie)
	m.LogoutHandler(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/api/draft/reset", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}
}

func TestExpiredSessionIsPruned(t *testing.T) {
	s := newSessions()
	s.put(&Session{ID: "old", User: &User{Username: "x"}, ExpiresAt: time.Now().Add(-time.Minute)})

	req := httptest.NewRequest(http.MethodGet, "/api/draft/state", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "old"})
	if _, ok := s.lookup(req); ok {
		t.Fatal("expired session should not be returned")
	}
	if len(s.byID) != 0 {
		t.Error("expired session should be dropped")
	}
}

func TestAuthentikLoginRedirect(t *testing.T) {
	a := NewAuthentikAuth(&AuthentikConfig{
		BaseURL:     "https://sso.example.com",
		ClientID:    "advisor",
		RedirectURL: "http://localhost:3000/auth/callback",
	})

	w := httptest.NewRecorder()
	a.LoginHandler(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://sso.example.com/application/o/authorize/") {
		t.Errorf("unexpected redirect %q", loc)
	}
	if !strings.Contains(loc, "client_id=advisor") {
		t.Errorf("redirect missing client id: %q", loc)
	}
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	a := NewAuthentikAuth(&AuthentikConfig{BaseURL: "https://sso.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=evil&code=x", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "good"})
	w := httptest.NewRecorder()
	a.CallbackHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestIsAdmin(t *testing.T) {
	if IsAdmin(nil) {
		t.Error("nil user is not an admin")
	}
	if !IsAdmin(&User{Groups: []string{"users", "admins"}}) {
		t.Error("admins group should be admin")
	}
	if IsAdmin(&User{Groups: []string{"users"}}) {
		t.Error("users group alone is not admin")
	}
}
