package service

import (
	"context"
	"strings"

	"unpolished/internal/models"
	"unpolished/internal/repository"
	"unpolished/pkg/schema"
)

type UserService struct {
	userRepo repository.UserRepository
	blogRepo repository.BlogRepository
}

// PublicUserView is a user page: public profile plus published blogs.
type PublicUserView struct {
	User  *ProfileUser   `json:"user"`
	Blogs []*models.Blog `json:"blogs"`
}

type UpdateBasicProfileInput struct {
	UserID uint
	schema.UpdateBasicProfileInput
}

func NewUserService(userRepo repository.UserRepository, blogRepo repository.BlogRepository) *UserService {
	return &UserService{userRepo: userRepo, blogRepo: blogRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetPublicUser returns the public part of a user with their published
// blogs, newest first.
func (s *UserService) GetPublicUser(ctx context.Context, username string, viewerID uint) (*PublicUserView, error) {
	user, err := s.userRepo.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	blogs, err := s.blogRepo.ListByAuthorStatus(ctx, user.ID, models.BlogStatusPublished, 0)
	if err != nil {
		return nil, err
	}
	owner := viewerID != 0 && viewerID == user.ID
	return &PublicUserView{User: NewProfileUser(user, owner), Blogs: blogs}, nil
}

// UpdateBasicProfile edits name, bio and profile image.
func (s *UserService) UpdateBasicProfile(ctx context.Context, in UpdateBasicProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.ProfileImage != nil {
		updates["profile_image"] = strings.TrimSpace(*in.ProfileImage)
	}
	if err := s.userRepo.UpdateFields(ctx, user, updates); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID)
}
