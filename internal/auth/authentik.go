package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"golang.org/x/oauth2"
)

const (
	sessionCookie = "session_id"
	stateCookie   = "oauth_state"
)

// AuthentikConfig holds the configuration for Authentik OAuth2/OIDC
type AuthentikConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// AppSlug is the Authentik application slug used for end-session
	AppSlug string
	Scopes  []string
}

// User represents an authenticated draft operator
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Groups   []string `json:"groups"`
}

// Session represents a user session
type Session struct {
	ID        string
	User      *User
	Token     *oauth2.Token
	CreatedAt time.Time
	ExpiresAt time.Time
}

type contextKey struct{}

var userKey contextKey

// AuthProvider is a common interface for authentication providers
type AuthProvider interface {
	LoginHandler(w http.ResponseWriter, r *http.Request)
	CallbackHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	Middleware(next http.Handler) http.Handler
}

// sessions is the in-memory session table shared by both providers
type sessions struct {
	mu   sync.RWMutex
	byID map[string]*Session
}

func newSessions() *sessions {
	return &sessions{byID: make(map[string]*Session)}
}

func (s *sessions) put(session *Session) {
	s.mu.Lock()
	s.byID[session.ID] = session
	s.mu.Unlock()
}

func (s *sessions) drop(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}

// lookup returns the live session for the request, pruning it when expired
func (s *sessions) lookup(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	session, ok := s.byID[cookie.Value]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		s.drop(session.ID)
		return nil, false
	}
	return session, true
}

// guard wraps next so it only runs for a live session. API calls get a JSON
// 401; browser navigation is sent to the login page.
func (s *sessions) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.lookup(r)
		if !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
				return
			}
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, session.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func setSessionCookie(w http.ResponseWriter, session *Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// AuthentikAuth manages authentication with Authentik
type AuthentikAuth struct {
	config       *AuthentikConfig
	oauth2Config *oauth2.Config
	sessions     *sessions
	httpClient   *http.Client
}

// NewAuthentikAuth creates a new Authentik authentication handler
func NewAuthentikAuth(config *AuthentikConfig) *AuthentikAuth {
	if len(config.Scopes) == 0 {
		config.Scopes = []string{"openid", "profile", "email"}
	}
	if config.AppSlug == "" {
		config.AppSlug = "hoops-auction-advisor"
	}

	oauth2Config := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/application/o/authorize/", config.BaseURL),
			TokenURL: fmt.Sprintf("%s/application/o/token/", config.BaseURL),
		},
	}

	return &AuthentikAuth{
		config:       config,
		oauth2Config: oauth2Config,
		sessions:     newSessions(),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginHandler initiates the OAuth2 login flow
func (a *AuthentikAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	state := randomToken()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300, // 5 minutes
	})

	http.Redirect(w, r, a.oauth2Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// CallbackHandler handles the OAuth2 callback from Authentik
func (a *AuthentikAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != cookie.Value {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	token, err := a.oauth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		logger.Warn("OAuth token exchange failed", "error", err)
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	user, err := a.getUserInfo(r.Context(), token)
	if err != nil {
		logger.Warn("Failed to fetch Authentik user info", "error", err)
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	session := &Session{
		ID:        randomToken(),
		User:      user,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: token.Expiry,
	}
	a.sessions.put(session)
	logger.Info("Operator logged in", "user", user.Username)

	setSessionCookie(w, session, true)
	clearCookie(w, stateCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutHandler handles user logout
func (a *AuthentikAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		a.sessions.drop(cookie.Value)
	}
	clearCookie(w, sessionCookie)

	logoutURL := fmt.Sprintf("%s/application/o/%s/end-session/", a.config.BaseURL, a.config.AppSlug)
	http.Redirect(w, r, logoutURL, http.StatusSeeOther)
}

// Middleware protects routes requiring authentication
func (a *AuthentikAuth) Middleware(next http.Handler) http.Handler {
	return a.sessions.guard(next)
}

// getUserInfo fetches user information from Authentik
func (a *AuthentikAuth) getUserInfo(ctx context.Context, token *oauth2.Token) (*User, error) {
	userInfoURL := fmt.Sprintf("%s/application/o/userinfo/", a.config.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: %s - %s", resp.Status, string(body))
	}

	var userInfo struct {
		Sub               string   `json:"sub"`
		Email             string   `json:"email"`
		Name              string   `json:"name"`
		PreferredUsername string   `json:"preferred_username"`
		Groups            []string `json:"groups"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}

	return &User{
		ID:       userInfo.Sub,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Username: userInfo.PreferredUsername,
		Groups:   userInfo.Groups,
	}, nil
}

// GetUser retrieves the authenticated user from the request context
func GetUser(r *http.Request) *User {
	user, ok := r.Context().Value(userKey).(*User)
	if !ok {
		return nil
	}
	return user
}

// IsAdmin checks if the user has admin privileges
func IsAdmin(user *User) bool {
	if user == nil {
		return false
	}
	for _, group := range user.Groups {
		if group == "admins" {
			return true
		}
	}
	return false
}

func randomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// MockAuth signs everyone in as a local operator for development
type MockAuth struct {
	sessions *sessions
}

// NewMockAuth creates a new mock authentication handler
func NewMockAuth() *MockAuth {
	logger.Info("Using MOCK authentication for local development")
	return &MockAuth{sessions: newSessions()}
}

// LoginHandler for mock auth creates a session without a round trip
func (m *MockAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	session := &Session{
		ID: randomToken(),
		User: &User{
			ID:       "dev-operator",
			Email:    "operator@hoops.local",
			Name:     "Dev Operator",
			Username: "operator",
			Groups:   []string{"users", "admins"},
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	m.sessions.put(session)

	setSessionCookie(w, session, false)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CallbackHandler is not needed for mock auth
func (m *MockAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutHandler for mock auth
func (m *MockAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		m.sessions.drop(cookie.Value)
	}
	clearCookie(w, sessionCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Middleware for mock auth
func (m *MockAuth) Middleware(next http.Handler) http.Handler {
	return m.sessions.guard(next)
}
