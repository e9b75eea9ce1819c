package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"unpolished/internal/models"
	"unpolished/internal/repository"

	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn              func(context.Context, uint) (*models.User, error)
	getByEmailFn           func(context.Context, string) (*models.User, error)
	getByUsernameFn        func(context.Context, string) (*models.User, error)
	getProfileByUsernameFn func(context.Context, string) (*models.User, error)
	createFn               func(context.Context, *models.User) error
	updateFieldsFn         func(context.Context, *models.User, map[string]interface{}) error
	markAuthorFn           func(context.Context, uint) error
	getAuthorProfileFn     func(context.Context, uint) (*models.AuthorProfile, error)
	upsertAuthorProfileFn  func(context.Context, *models.AuthorProfile) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetProfileByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getProfileByUsernameFn(ctx, username)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	u, err := s.getByIDFn(ctx, id)
	return u != nil, err
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateFields(ctx context.Context, user *models.User, updates map[string]interface{}) error {
	return s.updateFieldsFn(ctx, user, updates)
}
func (s *userRepoStub) MarkAuthor(ctx context.Context, userID uint) error {
	return s.markAuthorFn(ctx, userID)
}
func (s *userRepoStub) GetAuthorProfile(ctx context.Context, userID uint) (*models.AuthorProfile, error) {
	return s.getAuthorProfileFn(ctx, userID)
}
func (s *userRepoStub) UpsertAuthorProfile(ctx context.Context, profile *models.AuthorProfile) error {
	return s.upsertAuthorProfileFn(ctx, profile)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user", Name: "User"}, nil
		},
		getByEmailFn:           func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:        func(context.Context, string) (*models.User, error) { return nil, nil },
		getProfileByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, models.NewNotFoundError("User", nil) },
		createFn:               func(context.Context, *models.User) error { return nil },
		updateFieldsFn:         func(context.Context, *models.User, map[string]interface{}) error { return nil },
		markAuthorFn:           func(context.Context, uint) error { return nil },
		getAuthorProfileFn:     func(context.Context, uint) (*models.AuthorProfile, error) { return nil, nil },
		upsertAuthorProfileFn:  func(context.Context, *models.AuthorProfile) error { return nil },
	}
}

// blogRepoStub is a stub for repository.BlogRepository.
type blogRepoStub struct {
	createFn             func(context.Context, *models.Blog) error
	getByIDFn            func(context.Context, uint) (*models.Blog, error)
	getBySlugFn          func(context.Context, string) (*models.Blog, error)
	updateFn             func(context.Context, *models.Blog) error
	deleteFn             func(context.Context, *models.Blog) error
	listByAuthorFn       func(context.Context, uint) ([]*models.Blog, error)
	listByAuthorStatusFn func(context.Context, uint, models.BlogStatus, int) ([]*models.Blog, error)
	countByAuthorFn      func(context.Context, uint, models.BlogStatus) (int64, error)
	feedFn               func(context.Context, repository.FeedQuery) (*repository.FeedPage, error)
	incrementViewsFn     func(context.Context, *models.Blog) error
	listDueScheduledFn   func(context.Context, time.Time) ([]*models.Blog, error)
	recountCommentsFn    func(context.Context, uint) (int64, error)
}

func (s *blogRepoStub) Create(ctx context.Context, b *models.Blog) error { return s.createFn(ctx, b) }
func (s *blogRepoStub) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	return s.getByIDFn(ctx, id)
}
func (s *blogRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *blogRepoStub) Update(ctx context.Context, b *models.Blog) error { return s.updateFn(ctx, b) }
func (s *blogRepoStub) Delete(ctx context.Context, b *models.Blog) error { return s.deleteFn(ctx, b) }
func (s *blogRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Blog, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *blogRepoStub) ListByAuthorStatus(ctx context.Context, authorID uint, status models.BlogStatus, limit int) ([]*models.Blog, error) {
	return s.listByAuthorStatusFn(ctx, authorID, status, limit)
}
func (s *blogRepoStub) CountByAuthor(ctx context.Context, authorID uint, status models.BlogStatus) (int64, error) {
	return s.countByAuthorFn(ctx, authorID, status)
}
func (s *blogRepoStub) Feed(ctx context.Context, q repository.FeedQuery) (*repository.FeedPage, error) {
	return s.feedFn(ctx, q)
}
func (s *blogRepoStub) IncrementViews(ctx context.Context, b *models.Blog) error {
	return s.incrementViewsFn(ctx, b)
}
func (s *blogRepoStub) ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Blog, error) {
	return s.listDueScheduledFn(ctx, now)
}
func (s *blogRepoStub) RecountComments(ctx context.Context, blogID uint) (int64, error) {
	return s.recountCommentsFn(ctx, blogID)
}

func noopBlogRepo() *blogRepoStub {
	return &blogRepoStub{
		createFn: func(_ context.Context, b *models.Blog) error {
			b.ID = 1
			return nil
		},
		getByIDFn:            func(context.Context, uint) (*models.Blog, error) { return nil, models.NewNotFoundError("Blog", nil) },
		getBySlugFn:          func(context.Context, string) (*models.Blog, error) { return nil, models.NewNotFoundError("Blog", nil) },
		updateFn:             func(context.Context, *models.Blog) error { return nil },
		deleteFn:             func(context.Context, *models.Blog) error { return nil },
		listByAuthorFn:       func(context.Context, uint) ([]*models.Blog, error) { return nil, nil },
		listByAuthorStatusFn: func(context.Context, uint, models.BlogStatus, int) ([]*models.Blog, error) { return []*models.Blog{}, nil },
		countByAuthorFn:      func(context.Context, uint, models.BlogStatus) (int64, error) { return 0, nil },
		feedFn: func(context.Context, repository.FeedQuery) (*repository.FeedPage, error) {
			return &repository.FeedPage{Blogs: []*models.Blog{}}, nil
		},
		incrementViewsFn:   func(context.Context, *models.Blog) error { return nil },
		listDueScheduledFn: func(context.Context, time.Time) ([]*models.Blog, error) { return nil, nil },
		recountCommentsFn:  func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

// withBlogs serves GetByID and GetBySlug from a fixed set of blogs.
func (s *blogRepoStub) withBlogs(blogs ...*models.Blog) *blogRepoStub {
	s.getByIDFn = func(_ context.Context, id uint) (*models.Blog, error) {
		for _, b := range blogs {
			if b.ID == id {
				cp := *b
				return &cp, nil
			}
		}
		return nil, models.NewNotFoundError("Blog", id)
	}
	s.getBySlugFn = func(_ context.Context, slug string) (*models.Blog, error) {
		for _, b := range blogs {
			if b.Slug == slug {
				cp := *b
				return &cp, nil
			}
		}
		return nil, models.NewNotFoundError("Blog", nil)
	}
	return s
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn              func(context.Context, *models.Comment) error
	getByIDFn             func(context.Context, uint) (*models.Comment, error)
	updateContentFn       func(context.Context, *models.Comment) error
	updateStatusFn        func(context.Context, *models.Comment, models.CommentStatus) error
	deleteTreeFn          func(context.Context, *models.Comment) (int64, error)
	listRootsFn           func(context.Context, repository.CommentListQuery) ([]*models.Comment, int64, error)
	listRepliesFn         func(context.Context, []uint, bool) ([]*models.Comment, error)
	listByUserFn          func(context.Context, uint, int, int) ([]*models.Comment, error)
	countApprovedByUserFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, c *models.Comment) error {
	return s.updateContentFn(ctx, c)
}
func (s *commentRepoStub) UpdateStatus(ctx context.Context, c *models.Comment, status models.CommentStatus) error {
	return s.updateStatusFn(ctx, c, status)
}
func (s *commentRepoStub) DeleteTree(ctx context.Context, c *models.Comment) (int64, error) {
	return s.deleteTreeFn(ctx, c)
}
func (s *commentRepoStub) ListRoots(ctx context.Context, q repository.CommentListQuery) ([]*models.Comment, int64, error) {
	return s.listRootsFn(ctx, q)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentIDs []uint, includeHidden bool) ([]*models.Comment, error) {
	return s.listRepliesFn(ctx, parentIDs, includeHidden)
}
func (s *commentRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *commentRepoStub) CountApprovedByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countApprovedByUserFn(ctx, userID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 100
			return nil
		},
		getByIDFn:       func(_ context.Context, id uint) (*models.Comment, error) { return nil, models.NewNotFoundError("Comment", id) },
		updateContentFn: func(context.Context, *models.Comment) error { return nil },
		updateStatusFn: func(_ context.Context, c *models.Comment, status models.CommentStatus) error {
			c.Status = status
			return nil
		},
		deleteTreeFn: func(context.Context, *models.Comment) (int64, error) { return 1, nil },
		listRootsFn: func(context.Context, repository.CommentListQuery) ([]*models.Comment, int64, error) {
			return []*models.Comment{}, 0, nil
		},
		listRepliesFn:         func(context.Context, []uint, bool) ([]*models.Comment, error) { return []*models.Comment{}, nil },
		listByUserFn:          func(context.Context, uint, int, int) ([]*models.Comment, error) { return []*models.Comment{}, nil },
		countApprovedByUserFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

// withComments serves GetByID from a fixed set of comments.
func (s *commentRepoStub) withComments(comments ...*models.Comment) *commentRepoStub {
	s.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		for _, c := range comments {
			if c.ID == id {
				cp := *c
				return &cp, nil
			}
		}
		return nil, models.NewNotFoundError("Comment", id)
	}
	return s
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	toggleFn func(context.Context, uint, *models.Blog) (bool, error)
	countFn  func(context.Context, uint) (int64, error)
	listFn   func(context.Context, uint, int, int) ([]*models.Blog, error)
	existsFn func(context.Context, uint, uint) (bool, error)
}

func (s *engagementRepoStub) Like(ctx context.Context, userID uint, b *models.Blog) (bool, error) {
	return s.toggleFn(ctx, userID, b)
}
func (s *engagementRepoStub) Unlike(ctx context.Context, userID uint, b *models.Blog) (bool, error) {
	return s.toggleFn(ctx, userID, b)
}
func (s *engagementRepoStub) Bookmark(ctx context.Context, userID uint, b *models.Blog) (bool, error) {
	return s.toggleFn(ctx, userID, b)
}
func (s *engagementRepoStub) Unbookmark(ctx context.Context, userID uint, b *models.Blog) (bool, error) {
	return s.toggleFn(ctx, userID, b)
}
func (s *engagementRepoStub) IsLiked(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.existsFn(ctx, userID, blogID)
}
func (s *engagementRepoStub) IsBookmarked(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.existsFn(ctx, userID, blogID)
}
func (s *engagementRepoStub) ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	return s.listFn(ctx, userID, limit, offset)
}
func (s *engagementRepoStub) ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	return s.listFn(ctx, userID, limit, offset)
}
func (s *engagementRepoStub) CountLikesBy(ctx context.Context, userID uint) (int64, error) {
	return s.countFn(ctx, userID)
}
func (s *engagementRepoStub) CountBookmarksBy(ctx context.Context, userID uint) (int64, error) {
	return s.countFn(ctx, userID)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		toggleFn: func(context.Context, uint, *models.Blog) (bool, error) { return true, nil },
		countFn:  func(context.Context, uint) (int64, error) { return 0, nil },
		listFn:   func(context.Context, uint, int, int) ([]*models.Blog, error) { return []*models.Blog{}, nil },
		existsFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn      func(context.Context, uint, *models.User) (bool, error)
	unfollowFn    func(context.Context, uint, *models.User) (bool, error)
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	countFn       func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Follow(ctx context.Context, followerID uint, u *models.User) (bool, error) {
	return s.followFn(ctx, followerID, u)
}
func (s *followRepoStub) Unfollow(ctx context.Context, followerID uint, u *models.User) (bool, error) {
	return s.unfollowFn(ctx, followerID, u)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:      func(context.Context, uint, *models.User) (bool, error) { return true, nil },
		unfollowFn:    func(context.Context, uint, *models.User) (bool, error) { return true, nil },
		isFollowingFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		countFn:       func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }
