package repository

import (
	"context"
	"strings"
	"time"

	"unpolished/internal/cache"
	"unpolished/internal/models"

	"gorm.io/gorm"
)

// FeedQuery selects a page of the published feed.
type FeedQuery struct {
	Limit    int
	Offset   int
	Interest string
}

// FeedPage is one page of the feed along with the total number of matching
// blogs.
type FeedPage struct {
	Blogs []*models.Blog `json:"blogs"`
	Total int64          `json:"total"`
}

// BlogRepository defines persistence operations for blogs.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint) (*models.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, blog *models.Blog) error
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Blog, error)
	ListByAuthorStatus(ctx context.Context, authorID uint, status models.BlogStatus, limit int) ([]*models.Blog, error)
	CountByAuthor(ctx context.Context, authorID uint, status models.BlogStatus) (int64, error)
	Feed(ctx context.Context, q FeedQuery) (*FeedPage, error)
	IncrementViews(ctx context.Context, blog *models.Blog) error
	ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Blog, error)
	RecountComments(ctx context.Context, blogID uint) (int64, error)
}

// updatableBlogColumns are written by Update. Counters are excluded so a
// stale struct can never overwrite them.
var updatableBlogColumns = []string{
	"title", "content", "content_format", "excerpt", "featured_image", "status",
	"published_at", "scheduled_for", "meta_title", "meta_description",
	"is_premium", "allow_comments", "reading_time", "updated_at",
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(blog).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Blog slug already exists")
		}
		return models.NewInternalError(err)
	}
	if blog.IsPublished() {
		cache.InvalidateFeed(ctx)
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).First(&blog, id).Error; err != nil {
		return nil, notFoundOr(err, "Blog", id)
	}
	return &blog, nil
}

// GetBySlug loads a blog with its author summary. Results are cached by slug,
// so counters may lag by up to BlogTTL unless the writer invalidates.
func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	err := cache.Aside(ctx, cache.BlogKey(slug), &blog, cache.BlogTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).
			Preload("Author").
			Where("slug = ?", slug).
			First(&blog).Error; err != nil {
			return notFoundOr(err, "Blog", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	blog.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).
		Model(blog).
		Select(updatableBlogColumns).
		Updates(blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, blog.Slug)
	cache.InvalidateFeed(ctx)
	return nil
}

// Delete removes the blog. Comments, likes and bookmarks go with it through
// ON DELETE CASCADE.
func (r *blogRepository) Delete(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Delete(&models.Blog{}, blog.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, blog.Slug)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *blogRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	if err := readDB(r.db).WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("updated_at DESC").
		Find(&blogs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

// ListByAuthorStatus lists one author's blogs in a given status, most recent
// first. A non-positive limit returns all of them.
func (r *blogRepository) ListByAuthorStatus(ctx context.Context, authorID uint, status models.BlogStatus, limit int) ([]*models.Blog, error) {
	order := "updated_at DESC"
	if status == models.BlogStatusPublished {
		order = "published_at DESC, id DESC"
	}
	q := readDB(r.db).WithContext(ctx).
		Where("author_id = ? AND status = ?", authorID, status).
		Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var blogs []*models.Blog
	if err := q.Find(&blogs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

func (r *blogRepository) CountByAuthor(ctx context.Context, authorID uint, status models.BlogStatus) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Blog{}).
		Where("author_id = ? AND status = ?", authorID, status).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Feed returns published blogs, newest publication first. The first page of
// every interest is cached.
func (r *blogRepository) Feed(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	var page FeedPage
	fetch := func() error {
		base := readDB(r.db).WithContext(ctx).
			Model(&models.Blog{}).
			Where("status = ?", models.BlogStatusPublished)
		if interest := strings.TrimSpace(q.Interest); interest != "" {
			like := "%" + interest + "%"
			base = base.Where("(LOWER(title) LIKE LOWER(?) OR LOWER(excerpt) LIKE LOWER(?))", like, like)
		}
		if err := base.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
			return models.NewInternalError(err)
		}
		page.Blogs = make([]*models.Blog, 0, q.Limit)
		if err := base.Preload("Author").
			Order("published_at DESC, id DESC").
			Limit(q.Limit).
			Offset(q.Offset).
			Find(&page.Blogs).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if q.Offset == 0 {
		err = cache.Aside(ctx, cache.FeedKey(q.Limit, q.Interest), &page, cache.FeedTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// IncrementViews bumps the blog's view counter and its author's totalViews
// together.
func (r *blogRepository) IncrementViews(ctx context.Context, blog *models.Blog) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Blog{}).
			Where("id = ?", blog.ID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&models.AuthorProfile{}).
			Where("user_id = ?", blog.AuthorID).
			UpdateColumn("total_views", gorm.Expr("total_views + ?", 1)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListDueScheduled returns SCHEDULED blogs whose publication time has passed.
func (r *blogRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Blog, error) {
	var blogs []*models.Blog
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?", models.BlogStatusScheduled, now).
		Order("scheduled_for ASC").
		Find(&blogs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

// RecountComments resets comment_count from the stored comment rows and
// returns how many blogs were out of sync. A zero blogID reconciles every
// blog.
func (r *blogRepository) RecountComments(ctx context.Context, blogID uint) (int64, error) {
	const actual = "(SELECT COUNT(*) FROM comments WHERE comments.blog_id = blogs.id)"
	q := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("comment_count <> " + actual)
	if blogID != 0 {
		q = q.Where("id = ?", blogID)
	}
	res := q.UpdateColumn("comment_count", gorm.Expr(actual))
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
