package repository

import (
	"context"
	"time"

	"unpolished/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentListQuery selects a page of top-level comments on one blog.
type CommentListQuery struct {
	BlogID        uint
	Limit         int
	Offset        int
	IncludeHidden bool
}

// CommentRepository defines persistence operations for comments. Every
// operation that adds or removes rows keeps blogs.comment_count in step
// within the same transaction.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	UpdateContent(ctx context.Context, comment *models.Comment) error
	UpdateStatus(ctx context.Context, comment *models.Comment, status models.CommentStatus) error
	DeleteTree(ctx context.Context, comment *models.Comment) (int64, error)
	ListRoots(ctx context.Context, q CommentListQuery) ([]*models.Comment, int64, error)
	ListReplies(ctx context.Context, parentIDs []uint, includeHidden bool) ([]*models.Comment, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, error)
	CountApprovedByUser(ctx context.Context, userID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and increments the blog's comment_count in one
// transaction, then attaches the author summary.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Blog{}).
			Where("id = ?", comment.BlogID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	var author models.UserSummary
	if err := r.db.WithContext(ctx).First(&author, comment.UserID).Error; err != nil {
		return notFoundOr(err, "User", comment.UserID)
	}
	comment.User = &author
	comment.Replies = []*models.Comment{}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).
		Model(comment).
		Select("content", "updated_at").
		Updates(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateStatus changes the moderation status only. Hidden comments still
// count towards comment_count, so the counter is left alone.
func (r *commentRepository) UpdateStatus(ctx context.Context, comment *models.Comment, status models.CommentStatus) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", comment.ID).
		UpdateColumns(map[string]interface{}{"status": status, "updated_at": now}).Error; err != nil {
		return models.NewInternalError(err)
	}
	comment.Status = status
	comment.UpdatedAt = now
	return nil
}

// DeleteTree removes the comment together with its replies and
// replies-to-replies, and lowers comment_count by the size of that
// subtree. The blog row is locked for the duration so concurrent
// deletes in the same thread cannot double count.
func (r *commentRepository) DeleteTree(ctx context.Context, comment *models.Comment) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blog models.Blog
		if err := lockForUpdate(tx).Select("id").First(&blog, comment.BlogID).Error; err != nil {
			return err
		}

		ids, err := collectSubtree(tx, comment.ID)
		if err != nil {
			return err
		}

		// SQLite cascades replies inside this statement and reports only the
		// rows it matched directly, so the subtree size comes from ids.
		res := tx.Where("id IN ?", ids).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		deleted = int64(len(ids))

		return tx.Model(&models.Blog{}).
			Where("id = ?", comment.BlogID).
			UpdateColumn("comment_count", adjustCounter("comment_count", -int(deleted))).Error
	})
	if err != nil {
		return 0, notFoundOr(err, "Comment", comment.ID)
	}
	return deleted, nil
}

// collectSubtree returns id followed by its children and grandchildren.
// Trees never go deeper than MaxCommentDepth, so two levels cover every
// descendant of any node.
func collectSubtree(tx *gorm.DB, id uint) ([]uint, error) {
	ids := []uint{id}
	frontier := []uint{id}
	for level := 0; level < models.MaxCommentDepth && len(frontier) > 0; level++ {
		var next []uint
		if err := tx.Model(&models.Comment{}).
			Where("parent_id IN ?", frontier).
			Order("id").
			Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		ids = append(ids, next...)
		frontier = next
	}
	return ids, nil
}

// ListRoots returns top-level comments newest first, plus the number of
// top-level comments visible under the same filter.
func (r *commentRepository) ListRoots(ctx context.Context, q CommentListQuery) ([]*models.Comment, int64, error) {
	base := readDB(r.db).WithContext(ctx).
		Model(&models.Comment{}).
		Where("blog_id = ? AND parent_id IS NULL", q.BlogID)
	if !q.IncludeHidden {
		base = base.Where("status = ?", models.CommentStatusApproved)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	roots := make([]*models.Comment, 0)
	if err := base.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&roots).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return roots, total, nil
}

// ListReplies returns the direct replies of the given comments, oldest
// first.
func (r *commentRepository) ListReplies(ctx context.Context, parentIDs []uint, includeHidden bool) ([]*models.Comment, error) {
	replies := make([]*models.Comment, 0)
	if len(parentIDs) == 0 {
		return replies, nil
	}
	q := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("parent_id IN ?", parentIDs)
	if !includeHidden {
		q = q.Where("status = ?", models.CommentStatusApproved)
	}
	if err := q.Order("created_at ASC, id ASC").Find(&replies).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

// ListByUser returns a user's comments with their blog reference, newest
// first.
func (r *commentRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	if err := readDB(r.db).WithContext(ctx).
		Preload("Blog").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) CountApprovedByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Comment{}).
		Where("user_id = ? AND status = ?", userID, models.CommentStatusApproved).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
