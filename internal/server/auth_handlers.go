// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"unpolished/internal/middleware"
	"unpolished/internal/models"
	"unpolished/internal/service"
	"unpolished/pkg/schema"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/v1/auth/signup
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body schema.SignupInput true "Signup request"
// @Success 201 {object} object{message=string,token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req schema.SignupInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user created successfully",
		"user":    res.User,
		"token":   res.Token,
	})
}

// Signin handles POST /api/v1/auth/signin
// @Summary User signin
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body schema.SigninInput true "Signin credentials"
// @Success 200 {object} object{message=string,token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/signin [post]
func (s *Server) Signin(c *fiber.Ctx) error {
	var req schema.SigninInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.Signin(c.UserContext(), service.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "signin successful",
		"user":    res.User,
		"token":   res.Token,
	})
}

// Signout handles POST /api/v1/auth/signout
// @Summary User signout
// @Description Revoke the current token until it expires
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/signout [post]
// @Security BearerAuth
func (s *Server) Signout(c *fiber.Ctx) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondError(c, models.NewUnauthorizedError("Unauthorized"))
	}
	if err := s.authService.Signout(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "signed out successfully"})
}
