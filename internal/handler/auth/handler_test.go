package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/serenelabs/serenity/internal/auth"
	"github.com/serenelabs/serenity/internal/model/user"
	"github.com/serenelabs/serenity/internal/store"
)

type fakeUserStore struct {
	byEmail map[string]user.User
	byID    map[string]user.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]user.User),
		byID:    make(map[string]user.User),
	}
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash, displayName string) (user.User, error) {
	if _, exists := s.byEmail[email]; exists {
		return user.User{}, store.ErrEmailTaken
	}
	s.nextID++
	account := user.User{
		ID:           "user-" + strconv.Itoa(s.nextID),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		CreatedAt:    time.Now().UTC(),
	}
	s.byEmail[email] = account
	s.byID[account.ID] = account
	return account, nil
}

func (s *fakeUserStore) ByEmail(_ context.Context, email string) (user.User, error) {
	account, ok := s.byEmail[email]
	if !ok {
		return user.User{}, store.ErrUserNotFound
	}
	return account, nil
}

func (s *fakeUserStore) ByID(_ context.Context, id string) (user.User, error) {
	account, ok := s.byID[id]
	if !ok {
		return user.User{}, store.ErrUserNotFound
	}
	return account, nil
}

func setupRouter(users *fakeUserStore) (*chi.Mux, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	handler := New(users, tokens)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	r.Group(func(private chi.Router) {
		private.Use(tokens.Middleware)
		private.Get("/auth/me", handler.HandleMe)
	})
	return r, tokens
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupRouter(newFakeUserStore())

	registered := postJSON(r, "/auth/register", map[string]string{
		"email":       "  Casey@Example.com ",
		"password":    "secret123",
		"displayName": "Casey",
	})
	if registered.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", registered.Code, registered.Body.String())
	}

	var session sessionResponse
	if err := json.Unmarshal(registered.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if session.Token == "" {
		t.Fatal("register must return a token")
	}
	if session.User.Email != "casey@example.com" {
		t.Fatalf("email should be normalized, got %q", session.User.Email)
	}

	loggedIn := postJSON(r, "/auth/login", map[string]string{
		"email":    "casey@example.com",
		"password": "secret123",
	})
	if loggedIn.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", loggedIn.Code, loggedIn.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupRouter(newFakeUserStore())

	payload := map[string]string{"email": "casey@example.com", "password": "secret123"}
	if resp := postJSON(r, "/auth/register", payload); resp.Code != http.StatusCreated {
		t.Fatalf("first register failed: %d", resp.Code)
	}

	resp := postJSON(r, "/auth/register", payload)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupRouter(newFakeUserStore())

	cases := []struct {
		name    string
		payload map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "secret123"}},
		{"empty email", map[string]string{"email": "   ", "password": "secret123"}},
		{"short password", map[string]string{"email": "casey@example.com", "password": "abc"}},
		{"long password", map[string]string{"email": "casey@example.com", "password": string(bytes.Repeat([]byte("a"), 73))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(r, "/auth/register", tc.payload)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := setupRouter(newFakeUserStore())

	postJSON(r, "/auth/register", map[string]string{"email": "casey@example.com", "password": "secret123"})

	wrongPassword := postJSON(r, "/auth/login", map[string]string{"email": "casey@example.com", "password": "wrong"})
	if wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", wrongPassword.Code)
	}

	unknownEmail := postJSON(r, "/auth/login", map[string]string{"email": "nobody@example.com", "password": "secret123"})
	if unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d", unknownEmail.Code)
	}
}

func TestMeReturnsAccount(t *testing.T) {
	r, _ := setupRouter(newFakeUserStore())

	registered := postJSON(r, "/auth/register", map[string]string{"email": "casey@example.com", "password": "secret123"})
	var session sessionResponse
	if err := json.Unmarshal(registered.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var account user.User
	if err := json.Unmarshal(resp.Body.Bytes(), &account); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	if account.ID != session.User.ID {
		t.Fatalf("expected account %s, got %s", session.User.ID, account.ID)
	}
	if account.PasswordHash != "" {
		t.Fatal("password hash must never be serialized")
	}
}
