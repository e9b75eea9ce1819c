package service

import (
	"context"
	"strconv"
	"strings"

	"unpolished/internal/cache"
	"unpolished/internal/featureflags"
	"unpolished/internal/models"
	"unpolished/internal/observability"
	"unpolished/internal/repository"
	"unpolished/pkg/commenttree"
	"unpolished/pkg/schema"

	"go.opentelemetry.io/otel/attribute"
)

const maxCommentLength = 1000

type CommentService struct {
	commentRepo repository.CommentRepository
	blogRepo    repository.BlogRepository
	flags       *featureflags.Manager
}

type CreateCommentInput struct {
	UserID   uint
	BlogID   uint
	Content  string
	ParentID *uint
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

type ListCommentsInput struct {
	BlogID   uint
	ViewerID uint
	Limit    int
	Offset   int
}

type SetCommentStatusInput struct {
	UserID    uint
	CommentID uint
	Status    string
}

// CommentResult is a created or changed comment with the blog it belongs
// to, as stored after the change.
type CommentResult struct {
	Comment *models.Comment
	Blog    *models.Blog
	Parent  *models.Comment
	Depth   int
}

// DeleteCommentResult reports how many rows a delete removed.
type DeleteCommentResult struct {
	Comment *models.Comment
	Blog    *models.Blog
	Deleted int64
}

// CommentPage is one page of a blog's comment tree.
type CommentPage struct {
	Comments   []*models.Comment
	Pagination schema.Pagination
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	blogRepo repository.BlogRepository,
	flags *featureflags.Manager,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
		flags:       flags,
	}
}

// CreateComment checks, in order, that the blog exists, accepts comments and
// is visible to the commenter, then that the parent exists on the same blog
// and is shallow enough to take a reply.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (_ *CommentResult, err error) {
	ctx, span := observability.StartSpan(ctx, "comments.create",
		attribute.Int64("blog.id", int64(in.BlogID)),
		attribute.Bool("comment.reply", in.ParentID != nil),
	)
	defer func() { observability.EndSpan(span, err) }()

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fieldError("content", "content is required")
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, fieldError("content", "content must be at most 1000 characters")
	}

	blog, err := s.blogRepo.GetByID(ctx, in.BlogID)
	if err != nil {
		return nil, err
	}
	if !blog.AllowComments {
		return nil, models.NewForbiddenError("Comments are disabled for this blog")
	}
	if !blog.IsPublished() && blog.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Cannot comment on unpublished blog")
	}

	depth := 0
	var parent *models.Comment
	if in.ParentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.BlogID != blog.ID {
			return nil, models.NewValidationError("Parent comment belongs to different blog")
		}
		parentDepth, err := s.depthOf(ctx, parent)
		if err != nil {
			return nil, err
		}
		if parentDepth >= models.MaxCommentDepth {
			return nil, models.NewValidationError("Maximum nesting level reached")
		}
		depth = parentDepth + 1
	}

	status := models.CommentStatusApproved
	if s.flags.Enabled(featureflags.CommentModeration, in.UserID) && in.UserID != blog.AuthorID {
		status = models.CommentStatusPending
	}

	comment := &models.Comment{
		Content:  content,
		Status:   status,
		BlogID:   blog.ID,
		UserID:   in.UserID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	blog.CommentCount++
	cache.InvalidateBlog(ctx, blog.Slug)
	observability.CommentsCreated.WithLabelValues(strconv.Itoa(depth)).Inc()

	return &CommentResult{Comment: comment, Blog: blog, Parent: parent, Depth: depth}, nil
}

// depthOf walks up from c. Roots are depth 0.
func (s *CommentService) depthOf(ctx context.Context, c *models.Comment) (int, error) {
	depth := 0
	for c.ParentID != nil {
		depth++
		if depth > models.MaxCommentDepth {
			break
		}
		up, err := s.commentRepo.GetByID(ctx, *c.ParentID)
		if err != nil {
			return 0, err
		}
		c = up
	}
	return depth, nil
}

// ListComments returns one page of top-level comments with two levels of
// replies. Only the blog author sees comments that are not APPROVED.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) (*CommentPage, error) {
	blog, err := s.blogRepo.GetByID(ctx, in.BlogID)
	if err != nil {
		return nil, err
	}
	if !blog.AllowComments {
		return nil, models.NewForbiddenError("Comments are disabled for this blog")
	}
	isAuthor := in.ViewerID != 0 && in.ViewerID == blog.AuthorID
	if !blog.IsPublished() && !isAuthor {
		return nil, models.NewForbiddenError("Cannot view comments on unpublished blog")
	}

	roots, total, err := s.commentRepo.ListRoots(ctx, repository.CommentListQuery{
		BlogID:        blog.ID,
		Limit:         in.Limit,
		Offset:        in.Offset,
		IncludeHidden: isAuthor,
	})
	if err != nil {
		return nil, err
	}

	flat := append([]*models.Comment{}, roots...)
	level := roots
	for d := 1; d <= models.MaxCommentDepth && len(level) > 0; d++ {
		replies, err := s.commentRepo.ListReplies(ctx, commentIDs(level), isAuthor)
		if err != nil {
			return nil, err
		}
		flat = append(flat, replies...)
		level = replies
	}

	return &CommentPage{
		Comments:   commenttree.Build[uint, models.Comment](flat),
		Pagination: schema.NewPagination(in.Limit, in.Offset, int(total)),
	}, nil
}

func commentIDs(cs []*models.Comment) []uint {
	ids := make([]uint, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fieldError("content", "content is required")
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, fieldError("content", "content must be at most 1000 characters")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.UpdateContent(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment and its replies. The comment's author and
// the blog's author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (_ *DeleteCommentResult, err error) {
	ctx, span := observability.StartSpan(ctx, "comments.delete", attribute.Int64("comment.id", int64(in.CommentID)))
	defer func() { observability.EndSpan(span, err) }()

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogRepo.GetByID(ctx, comment.BlogID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.UserID && blog.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only delete your own comments or comments on your blog")
	}

	deleted, err := s.commentRepo.DeleteTree(ctx, comment)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("comment.deleted", deleted))
	blog.CommentCount -= int(deleted)
	if blog.CommentCount < 0 {
		blog.CommentCount = 0
	}
	cache.InvalidateBlog(ctx, blog.Slug)
	observability.CommentsRemoved.Add(float64(deleted))

	return &DeleteCommentResult{Comment: comment, Blog: blog, Deleted: deleted}, nil
}

// SetStatus moderates a comment. Only the blog's author may do so.
func (s *CommentService) SetStatus(ctx context.Context, in SetCommentStatusInput) (*models.Comment, error) {
	status := models.CommentStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	switch status {
	case models.CommentStatusPending, models.CommentStatusApproved, models.CommentStatusRejected, models.CommentStatusSpam:
	default:
		return nil, fieldError("status", "status must be one of PENDING, APPROVED, REJECTED, SPAM")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogRepo.GetByID(ctx, comment.BlogID)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Only the blog author can moderate comments")
	}
	if comment.Status == status {
		return comment, nil
	}

	if err := s.commentRepo.UpdateStatus(ctx, comment, status); err != nil {
		return nil, err
	}
	observability.CommentStatusChanges.WithLabelValues(string(status)).Inc()
	return comment, nil
}

// SetStatusAsAdmin moderates without an ownership check. It backs the admin
// CLI.
func (s *CommentService) SetStatusAsAdmin(ctx context.Context, commentID uint, status string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogRepo.GetByID(ctx, comment.BlogID)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, SetCommentStatusInput{UserID: blog.AuthorID, CommentID: commentID, Status: status})
}
