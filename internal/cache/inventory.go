package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	BlogKeyPrefix     = "blog:slug:%s"
	FeedKeyPrefix     = "feed:first:%d:%s"
	UserKeyPrefix     = "user:username:%s"
	feedKeyScanFilter = "feed:first:*"
)

const (
	BlogTTL = 10 * time.Minute
	FeedTTL = 2 * time.Minute
	UserTTL = 5 * time.Minute
)

// BlogKey caches a published blog by slug.
func BlogKey(slug string) string {
	return fmt.Sprintf(BlogKeyPrefix, slug)
}

// FeedKey caches the anonymous first feed page for a limit and interest.
func FeedKey(limit int, interest string) string {
	return fmt.Sprintf(FeedKeyPrefix, limit, strings.ToLower(strings.TrimSpace(interest)))
}

// UserKey caches a public user page by username.
func UserKey(username string) string {
	return fmt.Sprintf(UserKeyPrefix, strings.ToLower(username))
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateBlog(ctx context.Context, slug string) {
	Invalidate(ctx, BlogKey(slug))
}

func InvalidateUser(ctx context.Context, username string) {
	Invalidate(ctx, UserKey(username))
}

// InvalidateFeed drops every cached first feed page.
func InvalidateFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, feedKeyScanFilter, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
