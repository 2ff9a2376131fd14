package server

import (
	"errors"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts. The global listing is anonymous and
// paginated; out-of-range page numbers clamp rather than 404.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.feedService.IndexPage(c.Context(), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id, returning the post detail with its
// comment thread.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

type postRequest struct {
	Text      string  `json:"text"`
	GroupSlug *string `json:"group_slug"`
	ImageURL  string  `json:"image_url"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:  c.Locals("userID").(uint),
		Text:      req.Text,
		GroupSlug: req.GroupSlug,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. An edit attempt by anyone but the
// author is not an error page: the client is sent back to the post's read
// view with the post unchanged.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.EditPost(c.Context(), service.EditPostInput{
		PostID:    id,
		EditorID:  c.Locals("userID").(uint),
		Text:      req.Text,
		GroupSlug: req.GroupSlug,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotPostAuthor) {
			return c.Redirect(fmt.Sprintf("/api/posts/%d", id), fiber.StatusSeeOther)
		}
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetFeed handles GET /api/feed, the personalized listing of posts by
// authors the viewer follows.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, err := s.feedService.FeedPage(c.Context(), c.Locals("userID").(uint), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetUserPosts handles GET /api/users/:username/posts. The response carries
// the author profile and, for signed-in viewers, whether they follow them.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")

	author, following, page, err := s.feedService.ProfilePage(
		c.Context(), username, currentUserID(c), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":    author,
		"following": following,
		"posts":     page,
	})
}

// ClearListingCache handles DELETE /api/admin/listing-cache. It drops the
// cached global listing so the next read hits the store.
func (s *Server) ClearListingCache(c *fiber.Ctx) error {
	if err := s.feedService.ClearListingCache(c.Context()); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
