package server

import (
	"context"
	"log/slog"
	"time"

	"unpolished/internal/middleware"
	"unpolished/internal/models"
	"unpolished/internal/observability"
	"unpolished/internal/service"
)

// Event type constants prevent typos in event names.
const (
	EventCommentCreated      = "comment_created"
	EventCommentReply        = "comment_reply"
	EventCommentDeleted      = "comment_deleted"
	EventCommentCountChanged = "comment_count_changed"
	EventNewFollower         = "new_follower"
	EventBlogPublished       = "blog_published"
)

// realtimeEvent is the envelope written to websocket clients.
type realtimeEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// publishUserEvent delivers an event to one user, provided they keep push
// notifications on. With Redis the event goes through pub/sub so every
// instance's hub sees it; without Redis the local hub delivers directly.
func (s *Server) publishUserEvent(ctx context.Context, userID uint, eventType string, payload interface{}) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Skipping realtime event for unknown user",
			slog.String("event_type", eventType),
			slog.Uint64("target_user_id", uint64(userID)),
		)
		return
	}
	if !user.PushNotifications {
		return
	}

	message, ok := encodeEvent(ctx, eventType, payload)
	if !ok {
		return
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
	if s.notifier != nil {
		if err := s.notifier.PublishUser(ctx, userID, message); err != nil {
			middleware.Logger.ErrorContext(ctx, "Failed to publish user event",
				slog.String("event_type", eventType),
				slog.Uint64("target_user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
}

// publishBlogEvent reaches the connections watching blogID.
func (s *Server) publishBlogEvent(ctx context.Context, blogID uint, eventType string, payload interface{}) {
	s.fanOut(ctx, eventType, payload,
		func(msg string) error { return s.notifier.PublishBlog(ctx, blogID, msg) },
		func(msg string) { s.hub.BroadcastBlog(blogID, msg) },
	)
}

func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload interface{}) {
	s.fanOut(ctx, eventType, payload,
		func(msg string) error { return s.notifier.PublishBroadcast(ctx, msg) },
		func(msg string) { s.hub.BroadcastAll(msg) },
	)
}

func (s *Server) fanOut(ctx context.Context, eventType string, payload interface{}, remote func(string) error, local func(string)) {
	message, ok := encodeEvent(ctx, eventType, payload)
	if !ok {
		return
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
	if s.notifier != nil {
		if err := remote(message); err != nil {
			middleware.Logger.ErrorContext(ctx, "Failed to publish realtime event",
				slog.String("event_type", eventType),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	if s.hub != nil {
		local(message)
	}
}

func encodeEvent(ctx context.Context, eventType string, payload interface{}) (string, bool) {
	b, err := json.Marshal(realtimeEvent{Type: eventType, Payload: payload})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Failed to marshal realtime event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	return string(b), true
}

func (s *Server) publishCommentCount(ctx context.Context, blog *models.Blog) {
	s.publishBlogEvent(ctx, blog.ID, EventCommentCountChanged, map[string]interface{}{
		"blogId":       blog.ID,
		"slug":         blog.Slug,
		"commentCount": blog.CommentCount,
		"updatedAt":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// notifyCommentCreated tells the blog author about a new comment and the
// parent's author about a reply. Nobody is notified about their own comment.
func (s *Server) notifyCommentCreated(ctx context.Context, res *service.CommentResult) {
	c := res.Comment
	payload := map[string]interface{}{
		"blogId":   res.Blog.ID,
		"blogSlug": res.Blog.Slug,
		"comment":  c,
	}
	if res.Blog.AuthorID != c.UserID {
		s.publishUserEvent(ctx, res.Blog.AuthorID, EventCommentCreated, payload)
	}
	if res.Parent != nil && res.Parent.UserID != c.UserID {
		s.publishUserEvent(ctx, res.Parent.UserID, EventCommentReply, payload)
	}
	s.publishCommentCount(ctx, res.Blog)
}

// notifyCommentDeleted tells a comment's author when someone else removed it.
func (s *Server) notifyCommentDeleted(ctx context.Context, actorID uint, res *service.DeleteCommentResult) {
	if res.Comment.UserID != actorID {
		s.publishUserEvent(ctx, res.Comment.UserID, EventCommentDeleted, map[string]interface{}{
			"blogId":    res.Blog.ID,
			"blogSlug":  res.Blog.Slug,
			"commentId": res.Comment.ID,
			"deleted":   res.Deleted,
		})
	}
	s.publishCommentCount(ctx, res.Blog)
}

func (s *Server) notifyNewFollower(ctx context.Context, follower *models.User, followedID uint) {
	s.publishUserEvent(ctx, followedID, EventNewFollower, map[string]interface{}{
		"follower": follower.Summary(),
	})
}

// notifyBlogPublished lets every connected reader know a blog went live.
func (s *Server) notifyBlogPublished(ctx context.Context, blog *models.Blog) {
	s.publishBroadcastEvent(ctx, EventBlogPublished, map[string]interface{}{
		"blogId":      blog.ID,
		"slug":        blog.Slug,
		"title":       blog.Title,
		"authorId":    blog.AuthorID,
		"publishedAt": blog.PublishedAt,
	})
}
