package server

import (
	"odbyte/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// Explore handles GET /api/explore: public prompt search with facet
// filters. Query parameters: q, category, ai_model, premium, limit, offset.
func (s *Server) Explore(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	filter := repository.SearchFilter{
		Query:       c.Query("q"),
		Category:    c.Query("category"),
		AIModel:     c.Query("ai_model"),
		PremiumOnly: c.QueryBool("premium", false),
		Limit:       p.Limit,
		Offset:      p.Offset,
	}

	prompts, err := s.promptService.Search(c.Context(), filter, s.optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"prompts": prompts,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// ExploreFacets handles GET /api/explore/facets
func (s *Server) ExploreFacets(c *fiber.Ctx) error {
	facets, err := s.promptService.Facets(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(facets)
}
