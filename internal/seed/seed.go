package seed

import (
	"fmt"
	"log/slog"

	"unpolished/internal/middleware"
	"unpolished/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumBlogs int
	// MaxRootComments bounds the top-level comments per published blog.
	MaxRootComments int
	ShouldClean     bool
	SkipBcrypt      bool
	DryRun          bool
	MaxDays         int
	RandSeed        int64
}

// DefaultOptions is a small but complete demo dataset.
func DefaultOptions() Options {
	return Options{
		NumUsers:        12,
		NumBlogs:        30,
		MaxRootComments: 6,
		MaxDays:         90,
	}
}

// Result summarizes what a seeding run created.
type Result struct {
	Users     []*models.User
	Blogs     []*models.Blog
	Comments  int
	Likes     int
	Bookmarks int
	Follows   int
}

// statusWeights spreads blogs over every lifecycle state, mostly published.
var statusWeights = []struct {
	status models.BlogStatus
	weight int
}{
	{models.BlogStatusPublished, 7},
	{models.BlogStatusDraft, 1},
	{models.BlogStatusScheduled, 1},
	{models.BlogStatusArchived, 1},
}

// commentStatusWeights makes most comments visible, with some held back
// for moderation.
var commentStatusWeights = []struct {
	status models.CommentStatus
	weight int
}{
	{models.CommentStatusApproved, 16},
	{models.CommentStatusPending, 2},
	{models.CommentStatusRejected, 1},
	{models.CommentStatusSpam, 1},
}

// Seed populates the database with demo data
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	middleware.Logger.Info("Starting database seeding",
		slog.Int("users", opts.NumUsers),
		slog.Int("blogs", opts.NumBlogs),
	)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db, opts)
	res := &Result{}

	if err := seedUsers(f, opts.NumUsers, res); err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	if len(res.Users) < 2 {
		return nil, fmt.Errorf("need at least 2 users, have %d", len(res.Users))
	}

	if err := seedBlogs(f, opts.NumBlogs, res); err != nil {
		return nil, fmt.Errorf("failed to create blogs: %w", err)
	}
	if err := seedFollows(f, res); err != nil {
		return nil, fmt.Errorf("failed to create follows: %w", err)
	}

	maxRoots := opts.MaxRootComments
	if maxRoots <= 0 {
		maxRoots = DefaultOptions().MaxRootComments
	}
	for _, blog := range res.Blogs {
		if !blog.IsPublished() {
			continue
		}
		if blog.AllowComments {
			if err := seedThread(f, blog, maxRoots, res); err != nil {
				return nil, fmt.Errorf("failed to create comments on blog %d: %w", blog.ID, err)
			}
		}
		if err := seedEngagement(f, blog, res); err != nil {
			return nil, fmt.Errorf("failed to create engagement on blog %d: %w", blog.ID, err)
		}
	}

	middleware.Logger.Info("Database seeding completed",
		slog.Int("users", len(res.Users)),
		slog.Int("blogs", len(res.Blogs)),
		slog.Int("comments", res.Comments),
		slog.Int("likes", res.Likes),
		slog.Int("bookmarks", res.Bookmarks),
		slog.Int("follows", res.Follows),
	)
	return res, nil
}

func clearData(db *gorm.DB) error {
	middleware.Logger.Info("Clearing existing data")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE comments, blog_likes, bookmarks, follows, blogs, author_profiles, users RESTART IDENTITY CASCADE`).Error
	}
	for _, table := range []string{"comments", "blog_likes", "bookmarks", "follows", "blogs", "author_profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(f *Factory, n int, res *Result) error {
	// Fixed accounts so the demo can be signed into.
	for _, name := range []string{"demo", "writer"} {
		if len(res.Users) >= n {
			break
		}
		u, err := f.CreateUser(func(u *models.User) {
			u.Username = name
			u.Email = name + "@example.com"
		})
		if err != nil {
			return err
		}
		res.Users = append(res.Users, u)
	}

	for attempts := 0; len(res.Users) < n && attempts < n*3; attempts++ {
		u, err := f.CreateUser()
		if err != nil {
			// Fake usernames occasionally collide; try another.
			middleware.Logger.Debug("Skipping seed user", slog.String("error", err.Error()))
			continue
		}
		res.Users = append(res.Users, u)
	}
	return nil
}

func seedBlogs(f *Factory, n int, res *Result) error {
	// A third of the users write; everyone else reads and comments.
	authors := res.Users[:max(1, len(res.Users)/3)]
	for i := 0; i < n; i++ {
		author := authors[i%len(authors)]
		blog, err := f.CreateBlog(author, pickBlogStatus(f))
		if err != nil {
			return err
		}
		res.Blogs = append(res.Blogs, blog)
	}
	return nil
}

func seedFollows(f *Factory, res *Result) error {
	for _, follower := range res.Users {
		for _, following := range res.Users {
			if follower.ID == following.ID || f.rng.Intn(3) != 0 {
				continue
			}
			if err := f.CreateFollow(follower, following); err != nil {
				return err
			}
			res.Follows++
		}
	}
	return nil
}

// seedThread builds a reply tree on blog: roots, replies, and replies to
// replies, never deeper than models.MaxCommentDepth.
func seedThread(f *Factory, blog *models.Blog, maxRoots int, res *Result) error {
	roots := f.rng.Intn(maxRoots + 1)
	for i := 0; i < roots; i++ {
		root, err := f.CreateComment(randomUser(f, res.Users), blog, nil, withCommentStatus(f))
		if err != nil {
			return err
		}
		res.Comments++

		for j := 0; j < f.rng.Intn(3); j++ {
			replier := randomUser(f, res.Users)
			if f.rng.Intn(2) == 0 {
				replier = userByID(res.Users, blog.AuthorID, replier)
			}
			reply, err := f.CreateComment(replier, blog, root, withCommentStatus(f))
			if err != nil {
				return err
			}
			res.Comments++

			for k := 0; k < f.rng.Intn(2); k++ {
				if _, err := f.CreateComment(randomUser(f, res.Users), blog, reply, withCommentStatus(f)); err != nil {
					return err
				}
				res.Comments++
			}
		}
	}
	return nil
}

func seedEngagement(f *Factory, blog *models.Blog, res *Result) error {
	for _, u := range res.Users {
		if u.ID == blog.AuthorID {
			continue
		}
		if f.rng.Intn(3) == 0 {
			if err := f.CreateLike(u, blog); err != nil {
				return err
			}
			res.Likes++
		}
		if f.rng.Intn(6) == 0 {
			if err := f.CreateBookmark(u, blog); err != nil {
				return err
			}
			res.Bookmarks++
		}
	}
	return nil
}

func pickBlogStatus(f *Factory) models.BlogStatus {
	total := 0
	for _, w := range statusWeights {
		total += w.weight
	}
	n := f.rng.Intn(total)
	for _, w := range statusWeights {
		if n < w.weight {
			return w.status
		}
		n -= w.weight
	}
	return models.BlogStatusPublished
}

func withCommentStatus(f *Factory) func(*models.Comment) {
	total := 0
	for _, w := range commentStatusWeights {
		total += w.weight
	}
	n := f.rng.Intn(total)
	status := models.CommentStatusApproved
	for _, w := range commentStatusWeights {
		if n < w.weight {
			status = w.status
			break
		}
		n -= w.weight
	}
	return func(c *models.Comment) { c.Status = status }
}

func randomUser(f *Factory, users []*models.User) *models.User {
	return users[f.rng.Intn(len(users))]
}

func userByID(users []*models.User, id uint, fallback *models.User) *models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return fallback
}
