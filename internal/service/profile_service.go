package service

import (
	"context"
	"strings"
	"time"

	"unpolished/internal/models"
	"unpolished/internal/repository"
	"unpolished/pkg/schema"

	"golang.org/x/sync/errgroup"
)

const recentBlogsOnProfile = 6

type ProfileService struct {
	userRepo       repository.UserRepository
	blogRepo       repository.BlogRepository
	commentRepo    repository.CommentRepository
	engagementRepo repository.EngagementRepository
	followRepo     repository.FollowRepository
}

// ProfileUser is a user as shown on a profile page. Private fields are only
// filled for the owner; email also when the author chose to show it.
type ProfileUser struct {
	ID                 uint                  `json:"id"`
	Username           string                `json:"username"`
	Name               string                `json:"name"`
	Email              string                `json:"email,omitempty"`
	Bio                string                `json:"bio"`
	ProfileImage       string                `json:"profileImage"`
	CoverImage         string                `json:"coverImage"`
	Website            string                `json:"website"`
	Location           string                `json:"location"`
	TwitterHandle      string                `json:"twitterHandle"`
	LinkedinURL        string                `json:"linkedinUrl"`
	GithubURL          string                `json:"githubUrl"`
	InstagramURL       string                `json:"instagramUrl"`
	IsAuthor           bool                  `json:"isAuthor"`
	CreatedAt          time.Time             `json:"createdAt"`
	AuthorProfile      *models.AuthorProfile `json:"authorProfile,omitempty"`
	FirstName          *string               `json:"firstName,omitempty"`
	LastName           *string               `json:"lastName,omitempty"`
	EmailNotifications *bool                 `json:"emailNotifications,omitempty"`
	PushNotifications  *bool                 `json:"pushNotifications,omitempty"`
	DateOfBirth        *time.Time            `json:"dateOfBirth,omitempty"`
}

// ProfileStats are the counters shown on a profile. Drafts is owner only.
type ProfileStats struct {
	PublishedBlogs int64  `json:"publishedBlogs"`
	Drafts         *int64 `json:"drafts,omitempty"`
	Followers      int64  `json:"followers"`
	Following      int64  `json:"following"`
	Comments       int64  `json:"comments"`
	Likes          int64  `json:"likes"`
	Bookmarks      int64  `json:"bookmarks"`
}

type ProfileView struct {
	User         *ProfileUser   `json:"user"`
	Stats        ProfileStats   `json:"stats"`
	IsFollowing  bool           `json:"isFollowing"`
	IsOwnProfile bool           `json:"isOwnProfile"`
	RecentBlogs  []*models.Blog `json:"recentBlogs"`
}

type UpdateProfileInput struct {
	UserID uint
	schema.UpdateProfileInput
}

type AuthorProfileInput struct {
	UserID uint
	schema.AuthorProfileInput
}

// ActivityKind names one of the owner's activity lists.
type ActivityKind string

const (
	ActivityDrafts    ActivityKind = "drafts"
	ActivityBookmarks ActivityKind = "bookmarks"
	ActivityLiked     ActivityKind = "liked"
	ActivityComments  ActivityKind = "comments"
)

type ActivityInput struct {
	UserID uint
	Kind   ActivityKind
	Limit  int
	Offset int
}

func NewProfileService(
	userRepo repository.UserRepository,
	blogRepo repository.BlogRepository,
	commentRepo repository.CommentRepository,
	engagementRepo repository.EngagementRepository,
	followRepo repository.FollowRepository,
) *ProfileService {
	return &ProfileService{
		userRepo:       userRepo,
		blogRepo:       blogRepo,
		commentRepo:    commentRepo,
		engagementRepo: engagementRepo,
		followRepo:     followRepo,
	}
}

// NewProfileUser projects u for a viewer.
func NewProfileUser(u *models.User, owner bool) *ProfileUser {
	p := &ProfileUser{
		ID:            u.ID,
		Username:      u.Username,
		Name:          u.Name,
		Bio:           u.Bio,
		ProfileImage:  u.ProfileImage,
		CoverImage:    u.CoverImage,
		Website:       u.Website,
		Location:      u.Location,
		TwitterHandle: u.TwitterHandle,
		LinkedinURL:   u.LinkedinURL,
		GithubURL:     u.GithubURL,
		InstagramURL:  u.InstagramURL,
		IsAuthor:      u.IsAuthor,
		CreatedAt:     u.CreatedAt,
		AuthorProfile: u.AuthorProfile,
	}
	if owner || (u.AuthorProfile != nil && u.AuthorProfile.ShowEmail) {
		p.Email = u.Email
	}
	if owner {
		firstName, lastName := u.FirstName, u.LastName
		emailNotifications, pushNotifications := u.EmailNotifications, u.PushNotifications
		p.FirstName = &firstName
		p.LastName = &lastName
		p.EmailNotifications = &emailNotifications
		p.PushNotifications = &pushNotifications
		p.DateOfBirth = u.DateOfBirth
	}
	return p
}

// GetProfile assembles a profile page. The counters are independent reads
// and are fetched concurrently.
func (s *ProfileService) GetProfile(ctx context.Context, username string, viewerID uint) (*ProfileView, error) {
	user, err := s.userRepo.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	owner := viewerID != 0 && viewerID == user.ID

	view := &ProfileView{
		User:         NewProfileUser(user, owner),
		IsOwnProfile: owner,
	}
	stats := &view.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.PublishedBlogs, err = s.blogRepo.CountByAuthor(gctx, user.ID, models.BlogStatusPublished)
		return err
	})
	if owner {
		g.Go(func() error {
			drafts, err := s.blogRepo.CountByAuthor(gctx, user.ID, models.BlogStatusDraft)
			stats.Drafts = &drafts
			return err
		})
	}
	g.Go(func() (err error) {
		stats.Followers, err = s.followRepo.CountFollowers(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.Following, err = s.followRepo.CountFollowing(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.Comments, err = s.commentRepo.CountApprovedByUser(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.Likes, err = s.engagementRepo.CountLikesBy(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.Bookmarks, err = s.engagementRepo.CountBookmarksBy(gctx, user.ID)
		return err
	})
	if viewerID != 0 && !owner {
		g.Go(func() (err error) {
			view.IsFollowing, err = s.followRepo.IsFollowing(gctx, viewerID, user.ID)
			return err
		})
	}
	g.Go(func() (err error) {
		view.RecentBlogs, err = s.blogRepo.ListByAuthorStatus(gctx, user.ID, models.BlogStatusPublished, recentBlogsOnProfile)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateProfile writes the fields present in the input.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*ProfileUser, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	setString("name", in.Name)
	setString("first_name", in.FirstName)
	setString("last_name", in.LastName)
	setString("bio", in.Bio)
	setString("profile_image", in.ProfileImage)
	setString("cover_image", in.CoverImage)
	setString("website", in.Website)
	setString("location", in.Location)
	setString("twitter_handle", in.TwitterHandle)
	setString("linkedin_url", in.LinkedinURL)
	setString("github_url", in.GithubURL)
	setString("instagram_url", in.InstagramURL)
	if in.EmailNotifications != nil {
		updates["email_notifications"] = *in.EmailNotifications
	}
	if in.PushNotifications != nil {
		updates["push_notifications"] = *in.PushNotifications
	}
	if in.DateOfBirth != nil {
		if in.DateOfBirth.IsZero() {
			updates["date_of_birth"] = nil
		} else {
			if in.DateOfBirth.After(time.Now()) {
				return nil, fieldError("dateOfBirth", "dateOfBirth cannot be in the future")
			}
			updates["date_of_birth"] = in.DateOfBirth.Time
		}
	}

	if err := s.userRepo.UpdateFields(ctx, user, updates); err != nil {
		return nil, err
	}
	fresh, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if profile, err := s.userRepo.GetAuthorProfile(ctx, in.UserID); err == nil {
		fresh.AuthorProfile = profile
	}
	return NewProfileUser(fresh, true), nil
}

// UpsertAuthorProfile creates or edits the caller's author profile. It does
// not make the caller an author.
func (s *ProfileService) UpsertAuthorProfile(ctx context.Context, in AuthorProfileInput) (*models.AuthorProfile, error) {
	existing, err := s.userRepo.GetAuthorProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	profile := &models.AuthorProfile{UserID: in.UserID, Expertise: []string{}}
	if existing != nil {
		profile.Tagline = existing.Tagline
		profile.Expertise = existing.Expertise
		profile.ShowEmail = existing.ShowEmail
	}
	if in.Tagline != nil {
		profile.Tagline = strings.TrimSpace(*in.Tagline)
	}
	if in.Expertise != nil {
		profile.Expertise = normalizeExpertise(in.Expertise)
	}
	if in.ShowEmail != nil {
		profile.ShowEmail = *in.ShowEmail
	}

	if err := s.userRepo.UpsertAuthorProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func normalizeExpertise(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Follow makes followerID follow targetID and returns the followed user.
func (s *ProfileService) Follow(ctx context.Context, followerID, targetID uint) (*models.User, error) {
	if followerID == targetID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	created, err := s.followRepo.Follow(ctx, followerID, target)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, models.NewValidationError("Already following this user")
	}
	return target, nil
}

func (s *ProfileService) Unfollow(ctx context.Context, followerID, targetID uint) (*models.User, error) {
	if followerID == targetID {
		return nil, models.NewValidationError("You cannot unfollow yourself")
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	removed, err := s.followRepo.Unfollow(ctx, followerID, target)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewValidationError("Not following this user")
	}
	return target, nil
}

// Activity returns one of the owner's activity lists: blogs for drafts,
// bookmarks and liked, comments with their blog for comments.
func (s *ProfileService) Activity(ctx context.Context, in ActivityInput) (interface{}, error) {
	switch in.Kind {
	case ActivityDrafts:
		return s.blogRepo.ListByAuthorStatus(ctx, in.UserID, models.BlogStatusDraft, 0)
	case ActivityBookmarks:
		return s.engagementRepo.ListBookmarked(ctx, in.UserID, in.Limit, in.Offset)
	case ActivityLiked:
		return s.engagementRepo.ListLiked(ctx, in.UserID, in.Limit, in.Offset)
	case ActivityComments:
		return s.commentRepo.ListByUser(ctx, in.UserID, in.Limit, in.Offset)
	default:
		return nil, models.NewNotFoundError("Activity "+string(in.Kind), nil)
	}
}
