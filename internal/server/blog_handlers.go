package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListBlogPosts handles GET /api/blog
func (s *Server) ListBlogPosts(c *fiber.Ctx) error {
	posts, err := s.blog.List()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetBlogPost handles GET /api/blog/:slug
func (s *Server) GetBlogPost(c *fiber.Ctx) error {
	post, err := s.blog.Get(c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}
