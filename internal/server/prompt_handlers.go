package server

import (
	"odbyte/internal/models"
	"odbyte/internal/service"

	"github.com/gofiber/fiber/v2"
)

type promptRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Tags        string `json:"tags"`
	Category    string `json:"category"`
	AIModel     string `json:"ai_model"`
	Visibility  string `json:"visibility"`
}

// CreatePrompt handles POST /api/prompts
func (s *Server) CreatePrompt(c *fiber.Ctx) error {
	var req promptRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	prompt, err := s.promptService.Create(c.Context(), service.CreatePromptInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		Category:    req.Category,
		AIModel:     req.AIModel,
		Visibility:  req.Visibility,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(prompt)
}

// GetPrompt handles GET /api/prompts/:id. The route is public; a session,
// when present, lets owners read their private prompts and top-tier
// viewers read premium content.
func (s *Server) GetPrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	prompt, svcErr := s.promptService.Get(c.Context(), id, s.optionalUserID(c))
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(prompt)
}

// UpdatePrompt handles PUT /api/prompts/:id
func (s *Server) UpdatePrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req promptRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	prompt, svcErr := s.promptService.Update(c.Context(), service.UpdatePromptInput{
		PromptID:    id,
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		Category:    req.Category,
		AIModel:     req.AIModel,
		Visibility:  req.Visibility,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(prompt)
}

// DeletePrompt handles DELETE /api/prompts/:id
func (s *Server) DeletePrompt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	admin, adminErr := s.isAdminByUserID(c.Context(), userID)
	if adminErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(adminErr))
	}

	if svcErr := s.promptService.Delete(c.Context(), id, userID, admin); svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Prompt deleted"})
}

// SubmitPremium handles POST /api/prompts/:id/submit-premium
func (s *Server) SubmitPremium(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	prompt, svcErr := s.promptService.SubmitPremium(c.Context(), id, currentUserID(c))
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(prompt)
}

// GetDashboard handles GET /api/dashboard
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	dashboard, err := s.promptService.GetDashboard(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(dashboard)
}
