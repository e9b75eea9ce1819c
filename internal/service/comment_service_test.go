package service

import (
	"context"
	"strings"
	"testing"

	"unpolished/internal/featureflags"
	"unpolished/internal/models"
	"unpolished/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	authorID   uint = 1
	readerID   uint = 2
	strangerID uint = 3
)

func publishedBlog() *models.Blog {
	return &models.Blog{ID: 10, Slug: "hello-1", Status: models.BlogStatusPublished, AllowComments: true, AuthorID: authorID, CommentCount: 4}
}

// threadComments is root(20) <- reply(21) <- deep(22) on blog 10 and a
// stray comment on blog 11.
func threadComments() []*models.Comment {
	return []*models.Comment{
		{ID: 20, BlogID: 10, UserID: readerID, Status: models.CommentStatusApproved},
		{ID: 21, BlogID: 10, UserID: authorID, ParentID: uintPtr(20), Status: models.CommentStatusApproved},
		{ID: 22, BlogID: 10, UserID: readerID, ParentID: uintPtr(21), Status: models.CommentStatusApproved},
		{ID: 30, BlogID: 11, UserID: readerID, Status: models.CommentStatusApproved},
	}
}

func TestCommentService_CreateComment_Preconditions(t *testing.T) {
	t.Parallel()

	draft := &models.Blog{ID: 12, Slug: "draft-1", Status: models.BlogStatusDraft, AllowComments: true, AuthorID: authorID}
	closed := &models.Blog{ID: 13, Slug: "closed-1", Status: models.BlogStatusPublished, AllowComments: false, AuthorID: authorID}

	tests := []struct {
		name     string
		in       CreateCommentInput
		wantCode string
		wantMsg  string
		depth    int
	}{
		{name: "empty content", in: CreateCommentInput{UserID: readerID, BlogID: 10, Content: "   "}, wantCode: models.CodeValidation},
		{name: "content too long", in: CreateCommentInput{UserID: readerID, BlogID: 10, Content: strings.Repeat("x", 1001)}, wantCode: models.CodeValidation},
		{name: "blog missing", in: CreateCommentInput{UserID: readerID, BlogID: 99, Content: "hi"}, wantCode: models.CodeNotFound},
		{name: "comments disabled for reader", in: CreateCommentInput{UserID: readerID, BlogID: 13, Content: "hi"}, wantCode: models.CodeForbidden},
		{name: "comments disabled for author too", in: CreateCommentInput{UserID: authorID, BlogID: 13, Content: "hi"}, wantCode: models.CodeForbidden},
		{name: "draft blog for reader", in: CreateCommentInput{UserID: readerID, BlogID: 12, Content: "hi"}, wantCode: models.CodeForbidden},
		{name: "draft blog for its author", in: CreateCommentInput{UserID: authorID, BlogID: 12, Content: "hi"}},
		{name: "parent missing", in: CreateCommentInput{UserID: readerID, BlogID: 10, Content: "hi", ParentID: uintPtr(404)}, wantCode: models.CodeNotFound},
		{name: "parent on another blog", in: CreateCommentInput{UserID: readerID, BlogID: 10, Content: "hi", ParentID: uintPtr(30)}, wantCode: models.CodeValidation, wantMsg: "Parent comment belongs to different blog"},
		{name: "reply to root", in: CreateCommentInput{UserID: readerID, BlogID: 10, Content: "hi", ParentID: uintPtr(20)}, depth: 1},
		{name: "reply to reply", in: CreateCommentInput{UserID: readerID, BlogID: 10, Content: "hi", ParentID: uintPtr(21)}, depth: 2},
		{name: "reply to depth two", in: CreateCommentInput{UserID: readerID, BlogID: 10, Content: "hi", ParentID: uintPtr(22)}, wantCode: models.CodeValidation, wantMsg: "Maximum nesting level reached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			created := false
			comments := noopCommentRepo().withComments(threadComments()...)
			comments.createFn = func(_ context.Context, c *models.Comment) error {
				created = true
				c.ID = 500
				return nil
			}
			svc := NewCommentService(comments, noopBlogRepo().withBlogs(publishedBlog(), draft, closed), nil)

			res, err := svc.CreateComment(context.Background(), tt.in)
			if tt.wantCode != "" {
				appErr := assertAppErrorCode(t, err, tt.wantCode)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, appErr.Message)
				}
				assert.False(t, created, "no row may be written when a check fails")
				return
			}
			require.NoError(t, err)
			assert.True(t, created)
			assert.Equal(t, tt.depth, res.Depth)
			assert.Equal(t, models.CommentStatusApproved, res.Comment.Status)
		})
	}
}

func TestCommentService_CreateComment_BumpsReturnedCount(t *testing.T) {
	t.Parallel()
	svc := NewCommentService(noopCommentRepo(), noopBlogRepo().withBlogs(publishedBlog()), nil)

	res, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: readerID, BlogID: 10, Content: "  first!  "})
	require.NoError(t, err)
	assert.Equal(t, "first!", res.Comment.Content)
	assert.Equal(t, 5, res.Blog.CommentCount)
	assert.Nil(t, res.Parent)
}

func TestCommentService_CreateComment_ModerationFlag(t *testing.T) {
	t.Parallel()
	flags := featureflags.NewManager("comment_moderation=on")
	svc := NewCommentService(noopCommentRepo(), noopBlogRepo().withBlogs(publishedBlog()), flags)
	ctx := context.Background()

	res, err := svc.CreateComment(ctx, CreateCommentInput{UserID: readerID, BlogID: 10, Content: "hold me"})
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusPending, res.Comment.Status)

	res, err = svc.CreateComment(ctx, CreateCommentInput{UserID: authorID, BlogID: 10, Content: "my own blog"})
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusApproved, res.Comment.Status)
}

func TestCommentService_ListComments(t *testing.T) {
	t.Parallel()

	root := &models.Comment{ID: 20, BlogID: 10, Status: models.CommentStatusApproved}
	reply := &models.Comment{ID: 21, BlogID: 10, ParentID: uintPtr(20), Status: models.CommentStatusApproved}
	deep := &models.Comment{ID: 22, BlogID: 10, ParentID: uintPtr(21), Status: models.CommentStatusApproved}

	newRepo := func(gotHidden *bool) *commentRepoStub {
		repo := noopCommentRepo()
		repo.listRootsFn = func(_ context.Context, q repository.CommentListQuery) ([]*models.Comment, int64, error) {
			*gotHidden = q.IncludeHidden
			return []*models.Comment{root}, 3, nil
		}
		repo.listRepliesFn = func(_ context.Context, ids []uint, _ bool) ([]*models.Comment, error) {
			switch {
			case len(ids) == 1 && ids[0] == 20:
				return []*models.Comment{reply}, nil
			case len(ids) == 1 && ids[0] == 21:
				return []*models.Comment{deep}, nil
			}
			return []*models.Comment{}, nil
		}
		return repo
	}

	t.Run("visitor gets tree and pagination", func(t *testing.T) {
		var hidden bool
		svc := NewCommentService(newRepo(&hidden), noopBlogRepo().withBlogs(publishedBlog()), nil)
		page, err := svc.ListComments(context.Background(), ListCommentsInput{BlogID: 10, Limit: 1, Offset: 0})
		require.NoError(t, err)
		assert.False(t, hidden)
		require.Len(t, page.Comments, 1)
		require.Len(t, page.Comments[0].Replies, 1)
		require.Len(t, page.Comments[0].Replies[0].Replies, 1)
		assert.Empty(t, page.Comments[0].Replies[0].Replies[0].Replies)
		assert.Equal(t, 3, page.Pagination.Total)
		assert.True(t, page.Pagination.HasMore)
	})

	t.Run("author sees hidden comments", func(t *testing.T) {
		var hidden bool
		svc := NewCommentService(newRepo(&hidden), noopBlogRepo().withBlogs(publishedBlog()), nil)
		_, err := svc.ListComments(context.Background(), ListCommentsInput{BlogID: 10, ViewerID: authorID, Limit: 20})
		require.NoError(t, err)
		assert.True(t, hidden)
	})

	t.Run("unpublished blog forbidden for others", func(t *testing.T) {
		draft := &models.Blog{ID: 12, Status: models.BlogStatusDraft, AllowComments: true, AuthorID: authorID}
		var hidden bool
		svc := NewCommentService(newRepo(&hidden), noopBlogRepo().withBlogs(draft), nil)
		_, err := svc.ListComments(context.Background(), ListCommentsInput{BlogID: 12, ViewerID: readerID, Limit: 20})
		assertAppErrorCode(t, err, models.CodeForbidden)

		_, err = svc.ListComments(context.Background(), ListCommentsInput{BlogID: 12, ViewerID: authorID, Limit: 20})
		assert.NoError(t, err)
	})

	t.Run("comments disabled", func(t *testing.T) {
		closed := &models.Blog{ID: 13, Status: models.BlogStatusPublished, AllowComments: false, AuthorID: authorID}
		var hidden bool
		svc := NewCommentService(newRepo(&hidden), noopBlogRepo().withBlogs(closed), nil)
		_, err := svc.ListComments(context.Background(), ListCommentsInput{BlogID: 13, Limit: 20})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userID   uint
		wantCode string
	}{
		{name: "comment author", userID: readerID},
		{name: "blog author", userID: authorID},
		{name: "stranger", userID: strangerID, wantCode: models.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			comments := noopCommentRepo().withComments(threadComments()...)
			comments.deleteTreeFn = func(_ context.Context, c *models.Comment) (int64, error) {
				assert.Equal(t, uint(20), c.ID)
				return 3, nil
			}
			svc := NewCommentService(comments, noopBlogRepo().withBlogs(publishedBlog()), nil)

			res, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: tt.userID, CommentID: 20})
			if tt.wantCode != "" {
				assertAppErrorCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), res.Deleted)
			assert.Equal(t, 1, res.Blog.CommentCount)
		})
	}

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopBlogRepo().withBlogs(publishedBlog()), nil)
		_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: readerID, CommentID: 1})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()
	svc := NewCommentService(noopCommentRepo().withComments(threadComments()...), noopBlogRepo().withBlogs(publishedBlog()), nil)
	ctx := context.Background()

	_, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: authorID, CommentID: 20, Content: "edited"})
	assertAppErrorCode(t, err, models.CodeForbidden)

	_, err = svc.UpdateComment(ctx, UpdateCommentInput{UserID: readerID, CommentID: 404, Content: "edited"})
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = svc.UpdateComment(ctx, UpdateCommentInput{UserID: readerID, CommentID: 20, Content: ""})
	assertValidationError(t, err)

	c, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: readerID, CommentID: 20, Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", c.Content)
}

func TestCommentService_SetStatus(t *testing.T) {
	t.Parallel()
	svc := NewCommentService(noopCommentRepo().withComments(threadComments()...), noopBlogRepo().withBlogs(publishedBlog()), nil)
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, SetCommentStatusInput{UserID: readerID, CommentID: 20, Status: "SPAM"})
	assertAppErrorCode(t, err, models.CodeForbidden)

	_, err = svc.SetStatus(ctx, SetCommentStatusInput{UserID: authorID, CommentID: 20, Status: "DELETED"})
	assertValidationError(t, err)

	c, err := svc.SetStatus(ctx, SetCommentStatusInput{UserID: authorID, CommentID: 20, Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusRejected, c.Status)

	c, err = svc.SetStatusAsAdmin(ctx, 21, "SPAM")
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusSpam, c.Status)
}
