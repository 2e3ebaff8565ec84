package middleware

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidatedBodyKey is the Locals key the validated request is stored under.
const ValidatedBodyKey = "validatedBody"

// SignupRequest is the payload for account registration.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SigninRequest is the payload for signing in.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetupRequest carries the demographic profile fields.
type SetupRequest struct {
	UserID         string `json:"userId" validate:"required,uuid"`
	DependentCount int    `json:"dependent_count" validate:"gte=0"`
	EducationLevel string `json:"education_level"`
	IncomeCategory string `json:"income_category"`
	MaritalStatus  string `json:"marital_status"`
}

// ValidateSignup parses and validates the signup body before the handler runs.
func ValidateSignup() fiber.Handler {
	return validateBody(func() any { return new(SignupRequest) })
}

// ValidateSignin parses and validates the signin body.
func ValidateSignin() fiber.Handler {
	return validateBody(func() any { return new(SigninRequest) })
}

// ValidateSetup parses and validates the profile setup body.
func ValidateSetup() fiber.Handler {
	return validateBody(func() any { return new(SetupRequest) })
}

func validateBody(newBody func() any) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := newBody()
		if err := c.BodyParser(body); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := validate.Struct(body); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				fields := make(map[string]string)
				for _, e := range errs {
					fields[e.Field()] = e.Tag()
				}
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{
					"error":  "Validation failed",
					"fields": fields,
				})
			}
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		c.Locals(ValidatedBodyKey, body)
		return c.Next()
	}
}
