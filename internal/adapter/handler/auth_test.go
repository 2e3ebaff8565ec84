package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/RetroMaine/FintechProject/internal/adapter/middleware"
	"github.com/RetroMaine/FintechProject/internal/core/domain"
)

// stubUserStore is an in-memory UserStore.
type stubUserStore struct {
	users map[string]*domain.User // keyed by email
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[string]*domain.User)}
}

func (s *stubUserStore) Create(_ context.Context, name, email, passwordHash string) (*domain.User, error) {
	if _, exists := s.users[email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[email] = user
	return user, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) UpdateProfile(_ context.Context, userID uuid.UUID, p domain.ProfileSetup) error {
	for _, user := range s.users {
		if user.ID == userID {
			user.Profile = p
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *stubUserStore) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range s.users {
		out = append(out, *user)
	}
	return out, nil
}

func newAuthApp(store *stubUserStore) *fiber.App {
	h := &AuthHandler{Repo: store}
	app := fiber.New()
	app.Post("/signup", middleware.ValidateSignup(), h.Signup)
	app.Post("/signin", middleware.ValidateSignin(), h.Signin)
	app.Post("/setup", middleware.ValidateSetup(), h.Setup)
	app.Get("/users", h.ListUsers)
	return app
}

func TestSignup(t *testing.T) {
	store := newStubUserStore()
	app := newAuthApp(store)

	resp := postJSON(t, app, "/signup", map[string]any{
		"name": "Jane Doe", "email": "jane@example.com", "password": "hunter22",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var out struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	decodeBody(t, resp, &out)
	if out.UserID == "" {
		t.Error("expected a userId in the response")
	}

	user := store.users["jane@example.com"]
	if user == nil {
		t.Fatal("expected user to be stored")
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password must not be stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := newStubUserStore()
	app := newAuthApp(store)

	payload := map[string]any{"name": "Jane", "email": "jane@example.com", "password": "hunter22"}
	if resp := postJSON(t, app, "/signup", payload); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first signup should succeed, got %d", resp.StatusCode)
	}

	resp := postJSON(t, app, "/signup", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	if len(store.users) != 1 {
		t.Errorf("profile count must be unchanged, got %d", len(store.users))
	}
}

func TestSignupValidation(t *testing.T) {
	app := newAuthApp(newStubUserStore())

	resp := postJSON(t, app, "/signup", map[string]any{"name": "Jane", "password": "hunter22"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/signup", map[string]any{
		"name": "Jane", "email": "not-an-email", "password": "hunter22",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", resp.StatusCode)
	}
}

func TestSigninUnknownEmail(t *testing.T) {
	app := newAuthApp(newStubUserStore())

	resp := postJSON(t, app, "/signin", map[string]any{
		"email": "ghost@example.com", "password": "whatever",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSigninWrongPassword(t *testing.T) {
	store := newStubUserStore()
	app := newAuthApp(store)

	postJSON(t, app, "/signup", map[string]any{
		"name": "Jane", "email": "jane@example.com", "password": "hunter22",
	})

	resp := postJSON(t, app, "/signin", map[string]any{
		"email": "jane@example.com", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestSigninSuccess(t *testing.T) {
	store := newStubUserStore()
	app := newAuthApp(store)

	postJSON(t, app, "/signup", map[string]any{
		"name": "Jane", "email": "jane@example.com", "password": "hunter22",
	})

	resp := postJSON(t, app, "/signin", map[string]any{
		"email": "jane@example.com", "password": "hunter22",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		UserID string `json:"userId"`
	}
	decodeBody(t, resp, &out)
	if out.UserID != store.users["jane@example.com"].ID.String() {
		t.Errorf("userId mismatch: %s", out.UserID)
	}
}

func TestSetupUpdatesProfile(t *testing.T) {
	store := newStubUserStore()
	app := newAuthApp(store)

	postJSON(t, app, "/signup", map[string]any{
		"name": "Jane", "email": "jane@example.com", "password": "hunter22",
	})
	userID := store.users["jane@example.com"].ID

	resp := postJSON(t, app, "/setup", map[string]any{
		"userId":          userID.String(),
		"dependent_count": 2,
		"education_level": "Graduate",
		"income_category": "60K-80K",
		"marital_status":  "Married",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	profile := store.users["jane@example.com"].Profile
	if profile.DependentCount != 2 || profile.EducationLevel != "Graduate" {
		t.Errorf("profile not updated: %+v", profile)
	}
}

func TestSetupUnknownUser(t *testing.T) {
	app := newAuthApp(newStubUserStore())

	resp := postJSON(t, app, "/setup", map[string]any{
		"userId": uuid.NewString(), "dependent_count": 1,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListUsers(t *testing.T) {
	store := newStubUserStore()
	app := newAuthApp(store)

	postJSON(t, app, "/signup", map[string]any{
		"name": "Jane", "email": "jane@example.com", "password": "hunter22",
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	decodeBody(t, resp, &out)
	if len(out) != 1 || out[0].Email != "jane@example.com" {
		t.Errorf("unexpected users payload: %+v", out)
	}
}
