package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/RetroMaine/FintechProject/internal/core/domain"
	"github.com/RetroMaine/FintechProject/internal/core/service"
)

// PredictionHandler exposes the limit, approval and combined estimate
// endpoints. Only the combined estimate writes to the ledger.
type PredictionHandler struct {
	Estimator *service.Estimator
}

const (
	limitUsage = "Send a POST with JSON {Income, Rating, Cards, Age, Balance, Ethnicity} to get a prediction"

	approvalUsage = "Send POST JSON {Income, Rating, Cards, Age, Balance, " +
		"Education, Student, Married, Ethnicity} to get approval probability"
)

// LimitUsage answers GET on the limit endpoint with a plain usage hint.
func (h *PredictionHandler) LimitUsage(c *fiber.Ctx) error {
	return c.SendString(limitUsage)
}

// ApprovalUsage answers GET on the approval endpoint with a plain usage hint.
func (h *PredictionHandler) ApprovalUsage(c *fiber.Ctx) error {
	return c.SendString(approvalUsage)
}

// PredictLimit computes a credit limit from the six limit features. Nothing
// is persisted here.
func (h *PredictionHandler) PredictLimit(c *fiber.Ctx) error {
	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	features, err := domain.NormalizeLimitFeatures(raw)
	if err != nil {
		return featureError(c, err)
	}

	limit, err := h.Estimator.PredictLimit(features)
	if err != nil {
		slog.Error("Limit prediction failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"predicted_limit": service.Round2(limit)})
}

// PredictApproval computes an approval probability from the full feature
// set. Nothing is persisted here.
func (h *PredictionHandler) PredictApproval(c *fiber.Ctx) error {
	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	features, err := domain.NormalizeFeatures(raw)
	if err != nil {
		return featureError(c, err)
	}

	probability, err := h.Estimator.PredictApproval(features)
	if err != nil {
		slog.Error("Approval prediction failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"approval_probability": service.Round4(probability)})
}

// Estimate runs the combined pipeline and records one ledger entry.
func (h *PredictionHandler) Estimate(c *fiber.Ctx) error {
	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	userID := stringField(raw, "userId")

	features, err := domain.NormalizeFeatures(raw)
	if err != nil {
		return featureError(c, err)
	}

	result, err := h.Estimator.Estimate(c.Context(), userID, features)
	if err != nil {
		slog.Error("Estimate failed", "error", err, "userId", userID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Info("Estimate recorded", "userId", userID, "recordId", result.RecordID)

	return c.JSON(fiber.Map{
		"credit_limit":         result.CreditLimit,
		"approval_probability": result.ApprovalProbability,
	})
}

// History returns the user's prediction history, most recent first, plus the
// latest outputs (null when the history is empty).
func (h *PredictionHandler) History(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "userId is required"})
	}

	result, err := h.Estimator.History(c.Context(), userID)
	if err != nil {
		slog.Error("History lookup failed", "error", err, "userId", userID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch history"})
	}

	history := result.History
	if history == nil {
		history = []domain.HistoryEntry{}
	}

	return c.JSON(fiber.Map{
		"history": history,
		"latest":  result.Latest,
	})
}

// featureError maps normalization failures to client errors naming the
// offending field.
func featureError(c *fiber.Ctx, err error) error {
	var missing *domain.MissingFeatureError
	var bad *domain.BadFeatureError
	if errors.As(err, &missing) || errors.As(err, &bad) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
