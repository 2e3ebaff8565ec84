package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Generator produces free-text advice from a prompt. The upstream service is
// a black box; failures surface unmodified as 500s.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AdvisorHandler struct {
	Advisor Generator
}

type advisorRequest struct {
	UserData map[string]any `json:"userData"`
	Question string         `json:"question"`
}

// Chatbot answers a free-form question in the context of the user's
// financial data.
func (h *AdvisorHandler) Chatbot(c *fiber.Ctx) error {
	var req advisorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	prompt := buildPrompt(
		"You are a helpful financial advisor for a consumer credit app. Answer the user's question concisely.",
		req.UserData,
		req.Question,
	)

	reply, err := h.Advisor.Generate(c.Context(), prompt)
	if err != nil {
		slog.Error("Chatbot generation failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"reply": reply})
}

// Insight produces an unprompted summary of the user's financial situation.
func (h *AdvisorHandler) Insight(c *fiber.Ctx) error {
	var req advisorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	prompt := buildPrompt(
		"You are a financial analyst. Give the user a short insight into their finances and one actionable suggestion.",
		req.UserData,
		"",
	)

	reply, err := h.Advisor.Generate(c.Context(), prompt)
	if err != nil {
		slog.Error("Insight generation failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"reply": reply})
}

func buildPrompt(role string, userData map[string]any, question string) string {
	var b strings.Builder
	b.WriteString(role)

	if len(userData) > 0 {
		if data, err := json.Marshal(userData); err == nil {
			fmt.Fprintf(&b, "\n\nUser financial data: %s", data)
		}
	}
	if question != "" {
		fmt.Fprintf(&b, "\n\nQuestion: %s", question)
	}
	return b.String()
}
