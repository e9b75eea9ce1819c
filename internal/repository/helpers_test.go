package repository

import (
	"testing"

	"unpolished/internal/database"
	"unpolished/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns a fresh in-memory database with the full schema and
// foreign keys enforced.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Email:             username + "@example.com",
		Username:          username,
		Password:          "hash",
		Name:              username,
		PushNotifications: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedBlog(t *testing.T, db *gorm.DB, author *models.User, slug string, status models.BlogStatus) *models.Blog {
	t.Helper()
	b := &models.Blog{
		Slug:          slug,
		Title:         "Title " + slug,
		Content:       "some markdown content",
		ContentFormat: models.ContentFormatMarkdown,
		Status:        status,
		AllowComments: true,
		AuthorID:      author.ID,
	}
	require.NoError(t, db.Omit("Author").Create(b).Error)
	return b
}

// seedComment inserts through the repository so comment_count stays in sync.
func seedComment(t *testing.T, repo CommentRepository, blog *models.Blog, user *models.User, parent *models.Comment, status models.CommentStatus) *models.Comment {
	t.Helper()
	c := &models.Comment{
		Content: "comment",
		Status:  status,
		BlogID:  blog.ID,
		UserID:  user.ID,
	}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, repo.Create(t.Context(), c))
	return c
}

func commentCount(t *testing.T, db *gorm.DB, blogID uint) int {
	t.Helper()
	var blog models.Blog
	require.NoError(t, db.First(&blog, blogID).Error)
	return blog.CommentCount
}

func storedComments(t *testing.T, db *gorm.DB, blogID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Where("blog_id = ?", blogID).Count(&n).Error)
	return n
}
