package service

import (
	"context"
	"strings"

	"unpolished/internal/middleware"
	"unpolished/internal/models"
	"unpolished/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// TokenManager issues and revokes access tokens.
type TokenManager interface {
	Issue(userID uint, username, email string) (string, error)
	Revoke(ctx context.Context, id *middleware.Identity) error
}

type AuthService struct {
	userRepo   repository.UserRepository
	tokens     TokenManager
	bcryptCost int
}

type SignupInput struct {
	Email    string
	Username string
	Password string
	Name     string
}

type SigninInput struct {
	Email    string
	Password string
}

// AuthResult is returned by signup and signin.
type AuthResult struct {
	User  *models.User
	Token string
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already in use")
	}
	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = username
	}
	user := &models.User{
		Email:              email,
		Username:           username,
		Password:           string(hash),
		Name:               name,
		EmailNotifications: true,
		PushNotifications:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Signin(ctx context.Context, in SigninInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Signout revokes the presented token until it would have expired.
func (s *AuthService) Signout(ctx context.Context, id *middleware.Identity) error {
	if id == nil {
		return models.NewUnauthorizedError("Unauthorized")
	}
	if err := s.tokens.Revoke(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
