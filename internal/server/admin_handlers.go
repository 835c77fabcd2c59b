package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListPendingPrompts handles GET /api/admin/prompts/pending
func (s *Server) ListPendingPrompts(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	prompts, err := s.promptService.ListPendingReview(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"prompts": prompts})
}

// ApprovePrompt handles POST /api/admin/prompts/:id/approve
func (s *Server) ApprovePrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	prompt, svcErr := s.promptService.ReviewPremium(c.Context(), id, true)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(prompt)
}

// RejectPrompt handles POST /api/admin/prompts/:id/reject
func (s *Server) RejectPrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	prompt, svcErr := s.promptService.ReviewPremium(c.Context(), id, false)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(prompt)
}

// RemovePremium handles POST /api/admin/prompts/:id/remove-premium
func (s *Server) RemovePremium(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	prompt, svcErr := s.promptService.RemovePremium(c.Context(), id)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(prompt)
}

// ListUsers handles GET /api/admin/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}
