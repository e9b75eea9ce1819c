package database

import "unpolished/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM
// models, parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.AuthorProfile{},
		&models.Blog{},
		&models.Comment{},
		&models.Follow{},
		&models.BlogLike{},
		&models.Bookmark{},
	}
}
