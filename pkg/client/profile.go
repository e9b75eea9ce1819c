package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"unpolished/internal/models"
	"unpolished/pkg/schema"
)

// ProfileStats are the counters shown on a profile.
type ProfileStats struct {
	PublishedBlogs int64  `json:"publishedBlogs"`
	Drafts         *int64 `json:"drafts,omitempty"`
	Followers      int64  `json:"followers"`
	Following      int64  `json:"following"`
	Comments       int64  `json:"comments"`
	Likes          int64  `json:"likes"`
	Bookmarks      int64  `json:"bookmarks"`
}

// Profile is the response of GET /profile/:username.
type Profile struct {
	User         *models.User   `json:"user"`
	Stats        ProfileStats   `json:"stats"`
	IsFollowing  bool           `json:"isFollowing"`
	IsOwnProfile bool           `json:"isOwnProfile"`
	RecentBlogs  []*models.Blog `json:"recentBlogs"`
}

// Profile fetches a user's profile by username.
func (c *Client) Profile(ctx context.Context, username string) (*Profile, error) {
	var out struct {
		Profile *Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/profile/"+url.PathEscape(username), nil, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// UpdateProfile applies the non-nil fields of in to the caller's profile.
func (c *Client) UpdateProfile(ctx context.Context, in schema.UpdateProfileInput) (*models.User, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/profile", in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Follow follows another user.
func (c *Client) Follow(ctx context.Context, userID uint) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/profile/%d/follow", userID), nil, nil)
}

// Unfollow stops following a user.
func (c *Client) Unfollow(ctx context.Context, userID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/profile/%d/follow", userID), nil, nil)
}
