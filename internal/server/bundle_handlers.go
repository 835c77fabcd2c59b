package server

import (
	"odbyte/internal/models"
	"odbyte/internal/service"

	"github.com/gofiber/fiber/v2"
)

type bundleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PromptIDs   []uint `json:"prompt_ids"`
}

// CreateBundle handles POST /api/bundles
func (s *Server) CreateBundle(c *fiber.Ctx) error {
	var req bundleRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	bundle, err := s.bundleService.Create(c.Context(), service.CreateBundleInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		PromptIDs:   req.PromptIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(bundle)
}

// ListBundles handles GET /api/bundles
func (s *Server) ListBundles(c *fiber.Ctx) error {
	bundles, err := s.bundleService.ListMine(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"bundles": bundles})
}

// GetBundle handles GET /api/bundles/:id (owner management view)
func (s *Server) GetBundle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	view, svcErr := s.bundleService.Get(c.Context(), id, currentUserID(c))
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(view)
}

// UpdateBundle handles PUT /api/bundles/:id
func (s *Server) UpdateBundle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req bundleRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	bundle, svcErr := s.bundleService.Update(c.Context(), service.UpdateBundleInput{
		BundleID:    id,
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		PromptIDs:   req.PromptIDs,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(bundle)
}

// DeleteBundle handles DELETE /api/bundles/:id
func (s *Server) DeleteBundle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.bundleService.Delete(c.Context(), id, currentUserID(c)); svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Bundle deleted"})
}

// ViewBundleByLink handles GET /api/b/:link. No authentication: knowing
// the unguessable link is the access capability.
func (s *Server) ViewBundleByLink(c *fiber.Ctx) error {
	link := c.Params("link")
	if link == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid bundle link"))
	}

	view, err := s.bundleService.ViewByLink(c.Context(), link)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}
