package server

import (
	"github.com/gofiber/fiber/v2"
)

const (
	defaultUserListLimit = 50
	maxUserListLimit     = 200
)

// ListUsers handles GET /api/admin/users, an operator view of accounts
// ordered by username. The window is limit/offset based with a bounded
// limit; out-of-range values fall back to the default.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultUserListLimit)
	if limit <= 0 || limit > maxUserListLimit {
		limit = defaultUserListLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.List(c.Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}
