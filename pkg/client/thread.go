package client

import (
	"context"
	"fmt"
	"sync"

	"unpolished/internal/models"
	"unpolished/pkg/commenttree"
	"unpolished/pkg/schema"
)

const threadPageSize = 50

// Thread is a local copy of one blog's comment tree that follows the
// caller's own creates and deletes without refetching.
type Thread struct {
	c      *Client
	blogID uint

	mu    sync.RWMutex
	roots []*models.Comment
}

// LoadThread fetches every page of a blog's comments.
func (c *Client) LoadThread(ctx context.Context, blogID uint) (*Thread, error) {
	t := &Thread{c: c, blogID: blogID}
	if err := t.Refresh(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Refresh replaces the local tree with the server's.
func (t *Thread) Refresh(ctx context.Context) error {
	var roots []*models.Comment
	for offset := 0; ; offset += threadPageSize {
		page, err := t.c.Comments(ctx, t.blogID, threadPageSize, offset)
		if err != nil {
			return err
		}
		roots = append(roots, page.Comments...)
		if !page.Pagination.HasMore || len(page.Comments) == 0 {
			break
		}
	}
	t.mu.Lock()
	t.roots = roots
	t.mu.Unlock()
	return nil
}

// Roots returns the top-level comments. The slice must not be modified.
func (t *Thread) Roots() []*models.Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.roots
}

// Total counts every comment in the local tree.
func (t *Thread) Total() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return commenttree.CountTotal[uint, models.Comment](t.roots)
}

// Find returns a comment from the local tree, or nil.
func (t *Thread) Find(id uint) *models.Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return commenttree.Find[uint, models.Comment](t.roots, id)
}

// Post adds a root comment at the front, where the server lists the
// newest top-level comments.
func (t *Thread) Post(ctx context.Context, content string) (*models.Comment, error) {
	comment, err := t.c.CreateComment(ctx, t.blogID, schema.CreateCommentInput{Content: content})
	if err != nil {
		return nil, err
	}
	if comment.Replies == nil {
		comment.Replies = []*models.Comment{}
	}
	t.mu.Lock()
	t.roots = append([]*models.Comment{comment}, t.roots...)
	t.mu.Unlock()
	return comment, nil
}

// Reply answers a comment. Replies to a comment already at the deepest
// level are refused before any request is sent.
func (t *Thread) Reply(ctx context.Context, parentID uint, content string) (*models.Comment, error) {
	t.mu.RLock()
	depth, ok := commenttree.DepthOf[uint, models.Comment](t.roots, parentID)
	t.mu.RUnlock()
	if ok && depth >= models.MaxCommentDepth {
		return nil, &APIError{StatusCode: 400, Code: models.CodeValidation, Message: "Maximum nesting level reached"}
	}

	comment, err := t.c.CreateComment(ctx, t.blogID, schema.CreateCommentInput{Content: content, ParentID: &parentID})
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !commenttree.AddReply[uint, models.Comment](t.roots, parentID, comment) {
		return comment, fmt.Errorf("reply %d created but parent %d is not in the local thread", comment.ID, parentID)
	}
	return comment, nil
}

// Delete removes a comment and its replies on the server and locally.
func (t *Thread) Delete(ctx context.Context, commentID uint) (int64, error) {
	deleted, err := t.c.DeleteComment(ctx, commentID)
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	t.roots, _ = commenttree.Remove[uint, models.Comment](t.roots, commentID)
	t.mu.Unlock()
	return deleted, nil
}
