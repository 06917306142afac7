package http

import (
	"lively_server/core/port/in"
	"lively_server/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for profile operations
type ProfileHandler struct {
	service in.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service in.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Register registers profile routes
func (h *ProfileHandler) Register(router fiber.Router) {
	profile := router.Group("/profile")

	profile.Get("/:userId", h.Get)
	profile.Post("/:userId/interest", h.AddInterest)
	profile.Delete("/:userId/interest", h.RemoveInterest)
}

type interestRequest struct {
	Interest string `json:"interest"`
}

// Get returns the user's interests and discoveries, creating the profile
// on first contact.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID := c.Params("userId")

	resp, err := h.service.GetProfile(c.Context(), userID)
	if err != nil {
		logger.WithError(err).WithField("user_id", userID).Error("Failed to fetch profile")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(resp)
}

// AddInterest stores a new interest and kicks off background scouting.
// The response does not wait for scouting; clients poll Get for results.
func (h *ProfileHandler) AddInterest(c *fiber.Ctx) error {
	userID := c.Params("userId")

	// A body that doesn't parse counts as an empty interest: the add is a
	// no-op but still succeeds.
	var req interestRequest
	if err := c.BodyParser(&req); err != nil {
		req.Interest = ""
	}

	interests, err := h.service.AddInterest(c.Context(), userID, req.Interest)
	if err != nil {
		logger.WithError(err).WithField("user_id", userID).Error("Failed to add interest")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add interest"})
	}

	return c.JSON(interests)
}

// RemoveInterest removes an interest and its discoveries.
func (h *ProfileHandler) RemoveInterest(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var req interestRequest
	if err := c.BodyParser(&req); err != nil {
		req.Interest = ""
	}

	interests, err := h.service.RemoveInterest(c.Context(), userID, req.Interest)
	if err != nil {
		logger.WithError(err).WithField("user_id", userID).Error("Failed to remove interest")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove interest"})
	}

	return c.JSON(interests)
}
