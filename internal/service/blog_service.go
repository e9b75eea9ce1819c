package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"unpolished/internal/middleware"
	"unpolished/internal/models"
	"unpolished/internal/observability"
	"unpolished/internal/repository"
	"unpolished/internal/validation"
)

type BlogService struct {
	blogRepo       repository.BlogRepository
	userRepo       repository.UserRepository
	engagementRepo repository.EngagementRepository
	now            func() time.Time
}

type CreateBlogInput struct {
	AuthorID        uint
	Title           string
	Content         json.RawMessage
	Excerpt         string
	FeaturedImage   string
	Status          string
	MetaTitle       string
	MetaDescription string
	IsPremium       bool
	AllowComments   *bool
	ReadingTime     *int
	ScheduledFor    *time.Time
}

// UpdateBlogInput carries a partial update. Nil fields are left untouched.
type UpdateBlogInput struct {
	UserID          uint
	ID              uint
	Title           *string
	Content         json.RawMessage
	Excerpt         *string
	FeaturedImage   *string
	Status          *string
	MetaTitle       *string
	MetaDescription *string
	IsPremium       *bool
	AllowComments   *bool
	ReadingTime     *int
	ScheduledFor    *time.Time
}

type GetBlogInput struct {
	Slug       string
	ViewerID   uint
	RenderHTML bool
}

type FeedInput struct {
	Limit    int
	Offset   int
	Interest string
}

// EngagementResult reports whether a like or bookmark toggle changed
// anything, and the blog's counter afterwards.
type EngagementResult struct {
	Changed bool
	Count   int
}

func NewBlogService(
	blogRepo repository.BlogRepository,
	userRepo repository.UserRepository,
	engagementRepo repository.EngagementRepository,
) *BlogService {
	return &BlogService{
		blogRepo:       blogRepo,
		userRepo:       userRepo,
		engagementRepo: engagementRepo,
		now:            time.Now,
	}
}

func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	format, body, err := validation.ClassifyBlogContent(in.Content)
	if err != nil {
		return nil, fieldError("content", err.Error())
	}

	now := s.now()
	status := models.BlogStatusDraft
	if in.Status != "" {
		status = models.BlogStatus(strings.ToUpper(in.Status))
	}
	if status == models.BlogStatusScheduled {
		if in.ScheduledFor == nil {
			return nil, fieldError("scheduledFor", "scheduledFor is required when status is SCHEDULED")
		}
		if !in.ScheduledFor.After(now) {
			return nil, fieldError("scheduledFor", "scheduledFor must be in the future")
		}
	}

	allowComments := true
	if in.AllowComments != nil {
		allowComments = *in.AllowComments
	}
	readingTime := ReadingTime(format, body)
	if in.ReadingTime != nil {
		readingTime = *in.ReadingTime
	}

	blog := &models.Blog{
		Slug:            NewSlug(in.Title, now),
		Title:           strings.TrimSpace(in.Title),
		Content:         body,
		ContentFormat:   format,
		Excerpt:         in.Excerpt,
		FeaturedImage:   in.FeaturedImage,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		IsPremium:       in.IsPremium,
		AllowComments:   allowComments,
		ReadingTime:     readingTime,
		AuthorID:        in.AuthorID,
	}
	applyStatus(blog, status, in.ScheduledFor, now)

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}
	if blog.IsPublished() {
		if err := s.userRepo.MarkAuthor(ctx, in.AuthorID); err != nil {
			return nil, err
		}
	}
	s.attachAuthor(ctx, blog)
	return blog, nil
}

// UpdateBlog applies a partial update. Blogs owned by someone else are
// reported as missing.
func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != in.UserID {
		return nil, models.NewNotFoundError("Blog", nil)
	}
	wasPublished := blog.IsPublished()

	if in.Title != nil {
		blog.Title = strings.TrimSpace(*in.Title)
	}
	if len(in.Content) > 0 {
		format, body, err := validation.ClassifyBlogContent(in.Content)
		if err != nil {
			return nil, fieldError("content", err.Error())
		}
		blog.Content = body
		blog.ContentFormat = format
		if in.ReadingTime == nil {
			blog.ReadingTime = ReadingTime(format, body)
		}
	}
	if in.Excerpt != nil {
		blog.Excerpt = *in.Excerpt
	}
	if in.FeaturedImage != nil {
		blog.FeaturedImage = *in.FeaturedImage
	}
	if in.MetaTitle != nil {
		blog.MetaTitle = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		blog.MetaDescription = *in.MetaDescription
	}
	if in.IsPremium != nil {
		blog.IsPremium = *in.IsPremium
	}
	if in.AllowComments != nil {
		blog.AllowComments = *in.AllowComments
	}
	if in.ReadingTime != nil {
		blog.ReadingTime = *in.ReadingTime
	}

	now := s.now()
	status := blog.Status
	if in.Status != nil {
		status = models.BlogStatus(strings.ToUpper(*in.Status))
	}
	scheduledFor := blog.ScheduledFor
	if in.ScheduledFor != nil {
		scheduledFor = in.ScheduledFor
	}
	if status == models.BlogStatusScheduled && (in.Status != nil || in.ScheduledFor != nil) {
		if scheduledFor == nil {
			return nil, fieldError("scheduledFor", "scheduledFor is required when status is SCHEDULED")
		}
		if !scheduledFor.After(now) {
			return nil, fieldError("scheduledFor", "scheduledFor must be in the future")
		}
	}
	applyStatus(blog, status, scheduledFor, now)

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	if blog.IsPublished() && !wasPublished {
		if err := s.userRepo.MarkAuthor(ctx, blog.AuthorID); err != nil {
			return nil, err
		}
	}
	s.attachAuthor(ctx, blog)
	return blog, nil
}

// applyStatus moves blog to status. Entering PUBLISHED stamps publishedAt
// once; leaving it clears the stamp. Only SCHEDULED keeps scheduledFor.
func applyStatus(blog *models.Blog, status models.BlogStatus, scheduledFor *time.Time, now time.Time) {
	blog.Status = status
	switch status {
	case models.BlogStatusPublished:
		if blog.PublishedAt == nil {
			t := now
			blog.PublishedAt = &t
		}
		blog.ScheduledFor = nil
	case models.BlogStatusScheduled:
		blog.PublishedAt = nil
		blog.ScheduledFor = scheduledFor
	default:
		blog.PublishedAt = nil
		blog.ScheduledFor = nil
	}
}

func (s *BlogService) DeleteBlog(ctx context.Context, userID uint, slug string) error {
	blog, err := s.blogRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if blog.AuthorID != userID {
		return models.NewNotFoundError("Blog", nil)
	}
	return s.blogRepo.Delete(ctx, blog)
}

// GetBlog returns a blog visible to the viewer. Drafts, archived and
// scheduled blogs are visible to their author only. Views by anyone but the
// author are counted.
func (s *BlogService) GetBlog(ctx context.Context, in GetBlogInput) (*models.Blog, error) {
	blog, err := s.blogRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	isAuthor := in.ViewerID != 0 && in.ViewerID == blog.AuthorID
	if !blog.IsPublished() && !isAuthor {
		return nil, models.NewNotFoundError("Blog", nil)
	}

	if !isAuthor && blog.IsPublished() {
		if err := s.blogRepo.IncrementViews(ctx, blog); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to count blog view",
				slog.Uint64("blog_id", uint64(blog.ID)),
				slog.String("error", err.Error()),
			)
		} else {
			blog.ViewCount++
			observability.BlogViews.Inc()
		}
	}

	if in.RenderHTML && blog.ContentFormat == models.ContentFormatMarkdown {
		html, err := RenderMarkdown(blog.Content)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		blog.ContentHTML = html
	}
	return blog, nil
}

// ListMine returns every blog the user authored, most recently updated first.
func (s *BlogService) ListMine(ctx context.Context, userID uint) ([]*models.Blog, error) {
	return s.blogRepo.ListByAuthor(ctx, userID)
}

func (s *BlogService) Feed(ctx context.Context, in FeedInput) (*repository.FeedPage, error) {
	return s.blogRepo.Feed(ctx, repository.FeedQuery{
		Limit:    in.Limit,
		Offset:   in.Offset,
		Interest: strings.TrimSpace(in.Interest),
	})
}

func (s *BlogService) Like(ctx context.Context, userID uint, slug string) (*EngagementResult, error) {
	return s.toggle(ctx, userID, slug, s.engagementRepo.Like, func(b *models.Blog) int { return b.LikeCount })
}

func (s *BlogService) Unlike(ctx context.Context, userID uint, slug string) (*EngagementResult, error) {
	return s.toggle(ctx, userID, slug, s.engagementRepo.Unlike, func(b *models.Blog) int { return b.LikeCount })
}

func (s *BlogService) Bookmark(ctx context.Context, userID uint, slug string) (*EngagementResult, error) {
	return s.toggle(ctx, userID, slug, s.engagementRepo.Bookmark, func(b *models.Blog) int { return b.BookmarkCount })
}

func (s *BlogService) Unbookmark(ctx context.Context, userID uint, slug string) (*EngagementResult, error) {
	return s.toggle(ctx, userID, slug, s.engagementRepo.Unbookmark, func(b *models.Blog) int { return b.BookmarkCount })
}

func (s *BlogService) toggle(
	ctx context.Context,
	userID uint,
	slug string,
	op func(context.Context, uint, *models.Blog) (bool, error),
	counter func(*models.Blog) int,
) (*EngagementResult, error) {
	blog, err := s.blogRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !blog.IsPublished() && blog.AuthorID != userID {
		return nil, models.NewNotFoundError("Blog", nil)
	}
	changed, err := op(ctx, userID, blog)
	if err != nil {
		return nil, err
	}
	fresh, err := s.blogRepo.GetByID(ctx, blog.ID)
	if err != nil {
		return nil, err
	}
	return &EngagementResult{Changed: changed, Count: counter(fresh)}, nil
}

// PublishScheduled promotes every SCHEDULED blog whose time has come and
// returns the promoted blogs.
func (s *BlogService) PublishScheduled(ctx context.Context) ([]*models.Blog, error) {
	now := s.now()
	due, err := s.blogRepo.ListDueScheduled(ctx, now)
	if err != nil {
		return nil, err
	}
	published := make([]*models.Blog, 0, len(due))
	for _, blog := range due {
		at := *blog.ScheduledFor
		blog.PublishedAt = &at
		applyStatus(blog, models.BlogStatusPublished, nil, now)
		if err := s.blogRepo.Update(ctx, blog); err != nil {
			return published, err
		}
		if err := s.userRepo.MarkAuthor(ctx, blog.AuthorID); err != nil {
			return published, err
		}
		published = append(published, blog)
	}
	return published, nil
}

// RecountComments reconciles comment_count with stored rows. A zero blogID
// checks every blog.
func (s *BlogService) RecountComments(ctx context.Context, blogID uint) (int64, error) {
	return s.blogRepo.RecountComments(ctx, blogID)
}

func (s *BlogService) attachAuthor(ctx context.Context, blog *models.Blog) {
	if blog.Author != nil {
		return
	}
	author, err := s.userRepo.GetByID(ctx, blog.AuthorID)
	if err != nil {
		return
	}
	blog.Author = author.Summary()
}

func fieldError(field, message string) *models.AppError {
	return models.NewFieldValidationError([]models.FieldError{{Field: field, Message: message}})
}
