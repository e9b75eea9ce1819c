package repository

import (
	"context"

	"unpolished/internal/cache"
	"unpolished/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository stores likes and bookmarks. Edge inserts and deletes
// are idempotent; counters move only when a row was actually written or
// removed.
type EngagementRepository interface {
	Like(ctx context.Context, userID uint, blog *models.Blog) (bool, error)
	Unlike(ctx context.Context, userID uint, blog *models.Blog) (bool, error)
	Bookmark(ctx context.Context, userID uint, blog *models.Blog) (bool, error)
	Unbookmark(ctx context.Context, userID uint, blog *models.Blog) (bool, error)
	IsLiked(ctx context.Context, userID, blogID uint) (bool, error)
	IsBookmarked(ctx context.Context, userID, blogID uint) (bool, error)
	ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error)
	ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error)
	CountLikesBy(ctx context.Context, userID uint) (int64, error)
	CountBookmarksBy(ctx context.Context, userID uint) (int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Like(ctx context.Context, userID uint, blog *models.Blog) (bool, error) {
	edge := &models.BlogLike{UserID: userID, BlogID: blog.ID}
	return r.insertEdge(ctx, edge, blog, "like_count", true)
}

func (r *engagementRepository) Unlike(ctx context.Context, userID uint, blog *models.Blog) (bool, error) {
	return r.deleteEdge(ctx, &models.BlogLike{}, userID, blog, "like_count", true)
}

func (r *engagementRepository) Bookmark(ctx context.Context, userID uint, blog *models.Blog) (bool, error) {
	edge := &models.Bookmark{UserID: userID, BlogID: blog.ID}
	return r.insertEdge(ctx, edge, blog, "bookmark_count", false)
}

func (r *engagementRepository) Unbookmark(ctx context.Context, userID uint, blog *models.Blog) (bool, error) {
	return r.deleteEdge(ctx, &models.Bookmark{}, userID, blog, "bookmark_count", false)
}

// insertEdge writes the edge with ON CONFLICT DO NOTHING and bumps the blog
// counter (and the author's totalLikes for likes) when a row was inserted.
func (r *engagementRepository) insertEdge(ctx context.Context, edge interface{}, blog *models.Blog, counter string, authorTotal bool) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "blog_id"}},
			DoNothing: true,
		}).Create(edge)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return r.adjust(tx, blog, counter, authorTotal, 1)
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if created {
		cache.InvalidateBlog(ctx, blog.Slug)
	}
	return created, nil
}

func (r *engagementRepository) deleteEdge(ctx context.Context, model interface{}, userID uint, blog *models.Blog, counter string, authorTotal bool) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND blog_id = ?", userID, blog.ID).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return r.adjust(tx, blog, counter, authorTotal, -int(res.RowsAffected))
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if removed {
		cache.InvalidateBlog(ctx, blog.Slug)
	}
	return removed, nil
}

func (r *engagementRepository) adjust(tx *gorm.DB, blog *models.Blog, counter string, authorTotal bool, delta int) error {
	if err := tx.Model(&models.Blog{}).
		Where("id = ?", blog.ID).
		UpdateColumn(counter, adjustCounter(counter, delta)).Error; err != nil {
		return err
	}
	if !authorTotal {
		return nil
	}
	return tx.Model(&models.AuthorProfile{}).
		Where("user_id = ?", blog.AuthorID).
		UpdateColumn("total_likes", adjustCounter("total_likes", delta)).Error
}

func (r *engagementRepository) IsLiked(ctx context.Context, userID, blogID uint) (bool, error) {
	return r.exists(ctx, &models.BlogLike{}, userID, blogID)
}

func (r *engagementRepository) IsBookmarked(ctx context.Context, userID, blogID uint) (bool, error) {
	return r.exists(ctx, &models.Bookmark{}, userID, blogID)
}

func (r *engagementRepository) exists(ctx context.Context, model interface{}, userID, blogID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(model).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListLiked returns the blogs a user liked, most recently liked first.
func (r *engagementRepository) ListLiked(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	return r.listVia(ctx, "blog_likes", userID, limit, offset)
}

// ListBookmarked returns the blogs a user bookmarked, most recent first.
func (r *engagementRepository) ListBookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	return r.listVia(ctx, "bookmarks", userID, limit, offset)
}

func (r *engagementRepository) listVia(ctx context.Context, edgeTable string, userID uint, limit, offset int) ([]*models.Blog, error) {
	blogs := make([]*models.Blog, 0)
	err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		Joins("JOIN "+edgeTable+" ON "+edgeTable+".blog_id = blogs.id").
		Where(edgeTable+".user_id = ?", userID).
		Order(edgeTable + ".created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

func (r *engagementRepository) CountLikesBy(ctx context.Context, userID uint) (int64, error) {
	return r.countBy(ctx, &models.BlogLike{}, userID)
}

func (r *engagementRepository) CountBookmarksBy(ctx context.Context, userID uint) (int64, error) {
	return r.countBy(ctx, &models.Bookmark{}, userID)
}

func (r *engagementRepository) countBy(ctx context.Context, model interface{}, userID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(model).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
