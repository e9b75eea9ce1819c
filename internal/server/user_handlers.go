package server

import (
	"unpolished/internal/service"
	"unpolished/pkg/schema"

	"github.com/gofiber/fiber/v2"
)

// GetUser handles GET /api/v1/user/:username
// @Summary Public user page
// @Description Public profile fields plus published blogs, newest first
// @Tags user
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{user=service.PublicUserView}
// @Failure 404 {object} models.ErrorResponse
// @Router /user/{username} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	view, err := s.userService.GetPublicUser(c.UserContext(), c.Params("username"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": view})
}

// UpdateBasicProfile handles PUT /api/v1/user/updateProfile
// @Summary Update name, bio and profile image
// @Tags user
// @Accept json
// @Produce json
// @Param request body schema.UpdateBasicProfileInput true "Changes"
// @Success 200 {object} object{message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/updateProfile [put]
// @Security BearerAuth
func (s *Server) UpdateBasicProfile(c *fiber.Ctx) error {
	var req schema.UpdateBasicProfileInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateBasicProfile(c.UserContext(), service.UpdateBasicProfileInput{
		UserID:                  currentUserID(c),
		UpdateBasicProfileInput: req,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "profile updated successfully",
		"user":    user,
	})
}
