package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:username/follow. Following yourself
// is not an error: the request is skipped and the client is sent back to
// the profile, matching the behavior of repeating an existing follow.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	username := c.Params("username")

	result, err := s.followService.Follow(c.Context(), c.Locals("userID").(uint), username)
	if err != nil {
		return respondServiceError(c, err)
	}

	if result.SelfFollow {
		return c.Redirect(fmt.Sprintf("/api/users/%s/posts", username), fiber.StatusSeeOther)
	}

	return c.JSON(fiber.Map{
		"author":    result.Author,
		"following": true,
		"created":   result.Created,
	})
}

// GetFollowStatus handles GET /api/users/:username/follow, reporting
// whether the authenticated viewer follows the named author. Your own
// profile always reads as not followed.
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	following, err := s.followService.IsFollowing(c.Context(), c.Locals("userID").(uint), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"following": following})
}

// UnfollowUser handles DELETE /api/users/:username/follow. Removing a
// follow that does not exist is a 404.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	author, err := s.followService.Unfollow(c.Context(), c.Locals("userID").(uint), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":    author,
		"following": false,
	})
}
