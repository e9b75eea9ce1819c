package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"unpolished/internal/models"
	"unpolished/pkg/schema"
)

// CommentPage is one page of root comments with their replies nested.
type CommentPage struct {
	Comments   []*models.Comment `json:"comments"`
	Pagination schema.Pagination `json:"pagination"`
}

type commentEnvelope struct {
	Message string          `json:"message"`
	Comment *models.Comment `json:"comment"`
}

// Comments lists a page of a blog's comment tree.
func (c *Client) Comments(ctx context.Context, blogID uint, limit, offset int) (*CommentPage, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	path := fmt.Sprintf("/comments/%d", blogID)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var out CommentPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateComment posts a root comment, or a reply when in.ParentID is set.
func (c *Client) CreateComment(ctx context.Context, blogID uint, in schema.CreateCommentInput) (*models.Comment, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	var out commentEnvelope
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/comments/%d", blogID), in, &out); err != nil {
		return nil, err
	}
	return out.Comment, nil
}

// UpdateComment replaces the content of one of the caller's comments.
func (c *Client) UpdateComment(ctx context.Context, commentID uint, content string) (*models.Comment, error) {
	in := schema.UpdateCommentInput{Content: content}
	if err := validate(in); err != nil {
		return nil, err
	}
	var out commentEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/comments/%d", commentID), in, &out); err != nil {
		return nil, err
	}
	return out.Comment, nil
}

// DeleteComment removes a comment with all of its replies and returns how
// many comments were deleted.
func (c *Client) DeleteComment(ctx context.Context, commentID uint) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", commentID), nil, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// SetCommentStatus moderates a comment on one of the caller's blogs.
func (c *Client) SetCommentStatus(ctx context.Context, commentID uint, status string) (*models.Comment, error) {
	in := schema.CommentStatusInput{Status: status}
	if err := validate(in); err != nil {
		return nil, err
	}
	var out commentEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/comments/%d/status", commentID), in, &out); err != nil {
		return nil, err
	}
	return out.Comment, nil
}
