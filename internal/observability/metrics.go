package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommentsCreated counts stored comments by depth (0, 1, 2).
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unpolished_comments_created_total",
		Help: "Total number of comments created, by tree depth",
	}, []string{"depth"})

	// CommentsRemoved counts comment rows removed, including descendants.
	CommentsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unpolished_comments_removed_total",
		Help: "Total number of comment rows removed, including cascaded replies",
	})

	// CommentStatusChanges counts moderation decisions by resulting status.
	CommentStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unpolished_comment_status_changes_total",
		Help: "Total number of comment moderation status changes",
	}, []string{"status"})

	// BlogViews counts non-author blog views.
	BlogViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unpolished_blog_views_total",
		Help: "Total number of blog views by readers other than the author",
	})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unpolished_cache_lookups_total",
		Help: "Total number of cache-aside lookups by result",
	}, []string{"result"})

	// WebSocketEventsTotal counts realtime events delivered by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unpolished_websocket_events_total",
		Help: "Total realtime events published, by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unpolished_websocket_backpressure_drops_total",
		Help: "Total number of websocket messages dropped due to backpressure",
	}, []string{"reason"})
)
