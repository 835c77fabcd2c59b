package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleFavorite handles POST /api/favorites/:promptId. The same endpoint
// stars and unstars; the response says which happened.
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	promptID, err := s.parseID(c, "promptId")
	if err != nil {
		return nil
	}

	result, svcErr := s.favoriteService.Toggle(c.Context(), currentUserID(c), promptID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(result)
}

// ListFavorites handles GET /api/favorites
func (s *Server) ListFavorites(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	prompts, err := s.favoriteService.List(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"prompts": prompts})
}
