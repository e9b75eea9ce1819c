package repository

import (
	"context"
	"testing"

	"unpolished/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementRepository_LikeIsIdempotent(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewEngagementRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	require.NoError(t, users.MarkAuthor(ctx, author.ID))
	blog := seedBlog(t, db, author, "liked", models.BlogStatusPublished)

	created, err := repo.Like(ctx, reader.ID, blog)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Like(ctx, reader.ID, blog)
	require.NoError(t, err)
	assert.False(t, created)

	var stored models.Blog
	require.NoError(t, db.First(&stored, blog.ID).Error)
	assert.Equal(t, 1, stored.LikeCount)
	profile, err := users.GetAuthorProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.TotalLikes)

	liked, err := repo.IsLiked(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	removed, err := repo.Unlike(ctx, reader.ID, blog)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Unlike(ctx, reader.ID, blog)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, db.First(&stored, blog.ID).Error)
	assert.Equal(t, 0, stored.LikeCount)
	profile, err = users.GetAuthorProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalLikes)
}

func TestEngagementRepository_Bookmarks(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	first := seedBlog(t, db, author, "first", models.BlogStatusPublished)
	second := seedBlog(t, db, author, "second", models.BlogStatusPublished)

	for _, b := range []*models.Blog{first, second} {
		created, err := repo.Bookmark(ctx, reader.ID, b)
		require.NoError(t, err)
		assert.True(t, created)
	}

	count, err := repo.CountBookmarksBy(ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	saved, err := repo.ListBookmarked(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "second", saved[0].Slug)

	var stored models.Blog
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.Equal(t, 1, stored.BookmarkCount)

	removed, err := repo.Unbookmark(ctx, reader.ID, first)
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.Equal(t, 0, stored.BookmarkCount)
}
