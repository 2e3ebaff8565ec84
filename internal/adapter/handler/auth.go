package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/RetroMaine/FintechProject/internal/adapter/middleware"
	"github.com/RetroMaine/FintechProject/internal/core/domain"
)

// UserStore is the profile store the auth endpoints depend on.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, p domain.ProfileSetup) error
	List(ctx context.Context) ([]domain.User, error)
}

type AuthHandler struct {
	Repo UserStore
}

// Signup registers a new profile. Passwords are stored as bcrypt hashes.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	req := c.Locals(middleware.ValidatedBodyKey).(*middleware.SignupRequest)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process request"})
	}

	user, err := h.Repo.Create(c.Context(), req.Name, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Email is already registered"})
		}
		slog.Error("Failed to create user", "error", err, "email", req.Email)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create user"})
	}

	slog.Info("User registered", "userId", user.ID, "email", user.Email)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// Signin checks credentials. Unknown email is 404, wrong password is 401.
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	req := c.Locals(middleware.ValidatedBodyKey).(*middleware.SigninRequest)

	user, err := h.Repo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		slog.Error("Failed to fetch user", "error", err, "email", req.Email)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not sign in"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Wrong password"})
	}

	return c.JSON(fiber.Map{
		"message": "Signed in successfully",
		"userId":  user.ID,
	})
}

// Setup stores the optional demographic profile fields.
func (h *AuthHandler) Setup(c *fiber.Ctx) error {
	req := c.Locals(middleware.ValidatedBodyKey).(*middleware.SetupRequest)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid userId format"})
	}

	profile := domain.ProfileSetup{
		DependentCount: req.DependentCount,
		EducationLevel: req.EducationLevel,
		IncomeCategory: req.IncomeCategory,
		MaritalStatus:  req.MaritalStatus,
	}

	if err := h.Repo.UpdateProfile(c.Context(), userID, profile); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		slog.Error("Failed to update profile", "error", err, "userId", userID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile updated"})
}

// ListUsers returns every profile's public identity fields.
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Repo.List(c.Context())
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not list users"})
	}

	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
		})
	}
	return c.JSON(out)
}
