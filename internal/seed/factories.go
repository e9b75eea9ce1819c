// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"unpolished/internal/models"
	"unpolished/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests. Counters on blogs and
// author profiles are kept in step with the rows it inserts.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Factory{
		db:   db,
		opts: opts,
		// #nosec G404: acceptable for seeding
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1000,
	}
}

// pastTime returns a moment up to MaxDays in the past.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

func (f *Factory) assignID() uint {
	f.nextID++
	return f.nextID
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	username := strings.ToLower(gofakeit.Username())
	if len(username) > 16 {
		username = username[:16]
	}
	username = fmt.Sprintf("%s%d", username, gofakeit.Number(100, 999))

	user := &models.User{
		Username:           username,
		Email:              username + "@example.com",
		Name:               first + " " + last,
		FirstName:          first,
		LastName:           last,
		Bio:                gofakeit.Sentence(10),
		ProfileImage:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		Location:           gofakeit.City(),
		EmailNotifications: true,
		PushNotifications:  true,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = defaultPassword
	} else {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = f.assignID()
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildBlog constructs a blog by author in the given status without
// persisting it. Published blogs get a publishedAt in the past, scheduled
// ones a scheduledFor in the future.
func (f *Factory) BuildBlog(author *models.User, status models.BlogStatus, overrides ...func(*models.Blog)) *models.Blog {
	title := strings.TrimSuffix(gofakeit.Sentence(f.rng.Intn(5)+3), ".")
	if len(title) > 100 {
		title = strings.TrimSpace(title[:100])
	}

	var body strings.Builder
	body.WriteString("# " + title + "\n\n")
	for i := 0; i < f.rng.Intn(4)+2; i++ {
		if i > 0 && f.rng.Intn(3) == 0 {
			body.WriteString("## " + gofakeit.HipsterSentence(4) + "\n\n")
		}
		body.WriteString(gofakeit.Paragraph(1, 4, 12, " ") + "\n\n")
	}
	content := strings.TrimSpace(body.String())

	created := f.pastTime()
	blog := &models.Blog{
		Slug:            service.NewSlug(title, created),
		Title:           title,
		Content:         content,
		ContentFormat:   models.ContentFormatMarkdown,
		Excerpt:         gofakeit.Sentence(20),
		FeaturedImage:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		Status:          status,
		MetaTitle:       title,
		MetaDescription: gofakeit.Sentence(15),
		IsPremium:       f.rng.Intn(10) == 0,
		AllowComments:   f.rng.Intn(8) != 0,
		ReadingTime:     service.ReadingTime(models.ContentFormatMarkdown, content),
		AuthorID:        author.ID,
		CreatedAt:       created,
		UpdatedAt:       created,
	}

	switch status {
	case models.BlogStatusPublished:
		published := created.Add(time.Duration(f.rng.Intn(120)) * time.Minute)
		if published.After(time.Now()) {
			published = time.Now()
		}
		blog.PublishedAt = &published
		blog.ViewCount = f.rng.Intn(500)
	case models.BlogStatusScheduled:
		at := time.Now().Add(time.Duration(f.rng.Intn(72)+1) * time.Hour)
		blog.ScheduledFor = &at
	}

	for _, override := range overrides {
		override(blog)
	}
	return blog
}

// CreateBlog persists a built blog. Publishing marks the author and makes
// sure an author profile exists, as the API does.
func (f *Factory) CreateBlog(author *models.User, status models.BlogStatus, overrides ...func(*models.Blog)) (*models.Blog, error) {
	blog := f.BuildBlog(author, status, overrides...)
	if f.opts.DryRun {
		blog.ID = f.assignID()
		log.Printf("[dry-run] CreateBlog: status=%s author=%d title=%q", blog.Status, blog.AuthorID, blog.Title)
		return blog, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(blog).Error; err != nil {
			return err
		}
		if !blog.IsPublished() {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", author.ID).Update("is_author", true).Error; err != nil {
			return err
		}
		author.IsAuthor = true
		profile := models.AuthorProfile{UserID: author.ID}
		if err := tx.Where(models.AuthorProfile{UserID: author.ID}).FirstOrCreate(&profile).Error; err != nil {
			return err
		}
		return tx.Model(&models.AuthorProfile{}).Where("user_id = ?", author.ID).
			UpdateColumn("total_views", gorm.Expr("total_views + ?", blog.ViewCount)).Error
	})
	if err != nil {
		return nil, err
	}
	return blog, nil
}

// CreateComment persists a comment on blog by user, as a reply when parent
// is set, and bumps the blog's comment counter in the same transaction.
func (f *Factory) CreateComment(user *models.User, blog *models.Blog, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	created := blog.CreatedAt.Add(time.Duration(f.rng.Intn(72*60)+1) * time.Minute)
	if parent != nil {
		created = parent.CreatedAt.Add(time.Duration(f.rng.Intn(24*60)+1) * time.Minute)
	}
	if created.After(time.Now()) {
		created = time.Now()
	}

	comment := &models.Comment{
		Content:   gofakeit.Sentence(f.rng.Intn(20) + 4),
		Status:    models.CommentStatusApproved,
		BlogID:    blog.ID,
		UserID:    user.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		comment.ID = f.assignID()
		blog.CommentCount++
		return comment, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Blog{}).Where("id = ?", blog.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	blog.CommentCount++
	return comment, nil
}

// CreateLike persists a like from `user` on `blog` and moves the blog and
// author counters.
func (f *Factory) CreateLike(user *models.User, blog *models.Blog) error {
	if f.opts.DryRun {
		blog.LikeCount++
		return nil
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.BlogLike{UserID: user.ID, BlogID: blog.ID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Blog{}).Where("id = ?", blog.ID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.AuthorProfile{}).Where("user_id = ?", blog.AuthorID).
			UpdateColumn("total_likes", gorm.Expr("total_likes + 1")).Error
	})
	if err == nil {
		blog.LikeCount++
	}
	return err
}

// CreateBookmark persists a bookmark from `user` on `blog`.
func (f *Factory) CreateBookmark(user *models.User, blog *models.Blog) error {
	if f.opts.DryRun {
		blog.BookmarkCount++
		return nil
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Bookmark{UserID: user.ID, BlogID: blog.ID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Blog{}).Where("id = ?", blog.ID).
			UpdateColumn("bookmark_count", gorm.Expr("bookmark_count + 1")).Error
	})
	if err == nil {
		blog.BookmarkCount++
	}
	return err
}

// CreateFollow persists a follow edge and bumps the followed user's
// follower total when they have an author profile.
func (f *Factory) CreateFollow(follower, following *models.User) error {
	if follower.ID == following.ID {
		return fmt.Errorf("user %d cannot follow themselves", follower.ID)
	}
	if f.opts.DryRun {
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Follow{FollowerID: follower.ID, FollowingID: following.ID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.AuthorProfile{}).Where("user_id = ?", following.ID).
			UpdateColumn("total_followers", gorm.Expr("total_followers + 1")).Error
	})
}
