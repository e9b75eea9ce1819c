package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"unpolished/internal/models"
	"unpolished/pkg/schema"
)

// FeedQuery selects a page of the published feed.
type FeedQuery struct {
	Limit    int
	Offset   int
	Interest string
	// Fresh bypasses the listing cache.
	Fresh bool
}

// FeedPage is one page of the feed.
type FeedPage struct {
	Blogs      []*models.Blog    `json:"blogs"`
	Pagination schema.Pagination `json:"pagination"`
}

// Engagement is the result of a like or bookmark toggle.
type Engagement struct {
	Liked         *bool `json:"liked,omitempty"`
	Bookmarked    *bool `json:"bookmarked,omitempty"`
	Changed       bool  `json:"changed"`
	LikeCount     *int  `json:"likeCount,omitempty"`
	BookmarkCount *int  `json:"bookmarkCount,omitempty"`
}

type blogEnvelope struct {
	Message string       `json:"message"`
	Blog    *models.Blog `json:"blog"`
}

// Feed returns published blogs, newest first. First pages are served from
// the listing cache for 30 minutes after they are fetched.
func (c *Client) Feed(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	cacheable := q.Offset == 0 && !q.Fresh
	key := listingKey(q.Interest, q.Limit)
	if cacheable {
		if page, ok := c.listings.get(key); ok {
			return page, nil
		}
	}

	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Interest != "" {
		params.Set("interest", q.Interest)
	}
	path := "/blog/feed"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page FeedPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	if q.Offset == 0 {
		c.listings.put(key, &page)
	}
	return &page, nil
}

// GetBlog fetches a blog by slug. With renderHTML the server fills
// ContentHTML for markdown content.
func (c *Client) GetBlog(ctx context.Context, slug string, renderHTML bool) (*models.Blog, error) {
	path := "/blog/" + url.PathEscape(slug)
	if renderHTML {
		path += "?format=html"
	}
	var out blogEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Blog, nil
}

// MyBlogs lists every blog of the signed-in user.
func (c *Client) MyBlogs(ctx context.Context) ([]*models.Blog, error) {
	var out struct {
		Blogs []*models.Blog `json:"blogs"`
	}
	if err := c.do(ctx, http.MethodGet, "/blog/bulk", nil, &out); err != nil {
		return nil, err
	}
	return out.Blogs, nil
}

// CreateBlog publishes or drafts a new blog.
func (c *Client) CreateBlog(ctx context.Context, in schema.CreateBlogInput) (*models.Blog, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	var out blogEnvelope
	if err := c.do(ctx, http.MethodPost, "/blog", in, &out); err != nil {
		return nil, err
	}
	c.InvalidateListings()
	return out.Blog, nil
}

// UpdateBlog applies the non-nil fields of in.
func (c *Client) UpdateBlog(ctx context.Context, in schema.UpdateBlogInput) (*models.Blog, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	var out blogEnvelope
	if err := c.do(ctx, http.MethodPut, "/blog", in, &out); err != nil {
		return nil, err
	}
	c.InvalidateListings()
	return out.Blog, nil
}

// DeleteBlog removes one of the caller's blogs.
func (c *Client) DeleteBlog(ctx context.Context, slug string) error {
	if err := c.do(ctx, http.MethodDelete, "/blog/"+url.PathEscape(slug), nil, nil); err != nil {
		return err
	}
	c.InvalidateListings()
	return nil
}

// Like likes a blog. Liking twice is not an error; Changed reports whether
// anything happened.
func (c *Client) Like(ctx context.Context, slug string) (*Engagement, error) {
	return c.engage(ctx, http.MethodPost, slug, "like")
}

// Unlike removes a like.
func (c *Client) Unlike(ctx context.Context, slug string) (*Engagement, error) {
	return c.engage(ctx, http.MethodDelete, slug, "like")
}

// Bookmark bookmarks a blog.
func (c *Client) Bookmark(ctx context.Context, slug string) (*Engagement, error) {
	return c.engage(ctx, http.MethodPost, slug, "bookmark")
}

// Unbookmark removes a bookmark.
func (c *Client) Unbookmark(ctx context.Context, slug string) (*Engagement, error) {
	return c.engage(ctx, http.MethodDelete, slug, "bookmark")
}

func (c *Client) engage(ctx context.Context, method, slug, action string) (*Engagement, error) {
	var out Engagement
	if err := c.do(ctx, method, "/blog/"+url.PathEscape(slug)+"/"+action, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
