package server

import (
	"log/slog"

	"unpolished/internal/middleware"
	"unpolished/internal/service"
	"unpolished/pkg/schema"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/v1/profile/:username
// @Summary Get a profile
// @Description Private fields are returned to the owner only
// @Tags profile
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{profile=service.ProfileView}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	view, err := s.profileService.GetProfile(c.UserContext(), c.Params("username"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": view})
}

// UpdateProfile handles PUT /api/v1/profile
// @Summary Update the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body schema.UpdateProfileInput true "Changes"
// @Success 200 {object} object{message=string,user=service.ProfileUser}
// @Failure 400 {object} models.ErrorResponse
// @Router /profile [put]
// @Security BearerAuth
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req schema.UpdateProfileInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	user, err := s.profileService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:             currentUserID(c),
		UpdateProfileInput: req,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UpsertAuthorProfile handles POST /api/v1/profile/author
// @Summary Create or update the caller's author profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body schema.AuthorProfileInput true "Author profile"
// @Success 200 {object} object{message=string,authorProfile=models.AuthorProfile}
// @Failure 400 {object} models.ErrorResponse
// @Router /profile/author [post]
// @Security BearerAuth
func (s *Server) UpsertAuthorProfile(c *fiber.Ctx) error {
	var req schema.AuthorProfileInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.UpsertAuthorProfile(c.UserContext(), service.AuthorProfileInput{
		UserID:             currentUserID(c),
		AuthorProfileInput: req,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Author profile updated successfully",
		"authorProfile": profile,
	})
}

// Follow handles POST /api/v1/profile/:userId/follow
// @Summary Follow a user
// @Tags profile
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{userId}/follow [post]
// @Security BearerAuth
func (s *Server) Follow(c *fiber.Ctx) error {
	ctx := c.UserContext()

	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	followerID := currentUserID(c)
	if _, err := s.profileService.Follow(ctx, followerID, targetID); err != nil {
		return respondError(c, err)
	}

	follower, err := s.userService.GetUserByID(ctx, followerID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to load follower for notification",
			slog.Uint64("user_id", uint64(followerID)),
			slog.String("error", err.Error()),
		)
	} else {
		s.notifyNewFollower(ctx, follower, targetID)
	}

	return c.JSON(fiber.Map{"message": "Successfully followed user"})
}

// Unfollow handles DELETE /api/v1/profile/:userId/follow
// @Summary Unfollow a user
// @Tags profile
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{userId}/follow [delete]
// @Security BearerAuth
func (s *Server) Unfollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if _, err := s.profileService.Unfollow(c.UserContext(), currentUserID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Successfully unfollowed user"})
}

// GetActivity handles GET /api/v1/profile/activity/:kind
// @Summary The caller's drafts, bookmarks, liked blogs or comments
// @Tags profile
// @Produce json
// @Param kind path string true "drafts, bookmarks, liked or comments"
// @Param limit query int false "Page size (1-50)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{items=[]object}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/activity/{kind} [get]
// @Security BearerAuth
func (s *Server) GetActivity(c *fiber.Ctx) error {
	page, err := parsePagination(c)
	if err != nil {
		return nil
	}

	items, err := s.profileService.Activity(c.UserContext(), service.ActivityInput{
		UserID: currentUserID(c),
		Kind:   service.ActivityKind(c.Params("kind")),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}
