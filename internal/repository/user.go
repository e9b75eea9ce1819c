package repository

import (
	"context"
	"errors"
	"time"

	"unpolished/internal/cache"
	"unpolished/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users and their author
// profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, user *models.User, updates map[string]interface{}) error
	MarkAuthor(ctx context.Context, userID uint) error
	GetAuthorProfile(ctx context.Context, userID uint) (*models.AuthorProfile, error)
	UpsertAuthorProfile(ctx context.Context, profile *models.AuthorProfile) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetProfileByUsername loads a user with its author profile, cached by
// username.
func (r *userRepository) GetProfileByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(username), &user, cache.UserTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).
			Preload("AuthorProfile").
			Where("username = ?", username).
			First(&user).Error; err != nil {
			return notFoundOr(err, "User", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateFields writes the given columns only. Zero values in updates are
// written as-is.
func (r *userRepository) UpdateFields(ctx context.Context, user *models.User, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.Username)
	return nil
}

// MarkAuthor flips is_author and creates an empty author profile when the
// user has none. Calling it again is a no-op.
func (r *userRepository) MarkAuthor(ctx context.Context, userID uint) error {
	var username string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ? AND is_author = ?", userID, false).
			Update("is_author", true).Error; err != nil {
			return err
		}
		profile := models.AuthorProfile{UserID: userID, Expertise: []string{}}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&profile).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Pluck("username", &username).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, username)
	return nil
}

func (r *userRepository) GetAuthorProfile(ctx context.Context, userID uint) (*models.AuthorProfile, error) {
	var profile models.AuthorProfile
	if err := readDB(r.db).WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

// UpsertAuthorProfile creates the profile or overwrites its editable fields.
// Aggregate counters are never touched here.
func (r *userRepository) UpsertAuthorProfile(ctx context.Context, profile *models.AuthorProfile) error {
	if profile.Expertise == nil {
		profile.Expertise = []string{}
	}
	profile.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tagline", "expertise", "show_email", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	var stored models.AuthorProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&stored).Error; err != nil {
		return models.NewInternalError(err)
	}
	*profile = stored

	var username string
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", profile.UserID).Pluck("username", &username).Error; err == nil {
		cache.InvalidateUser(ctx, username)
	}
	return nil
}
