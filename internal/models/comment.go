package models

import (
	"time"
)

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "PENDING"
	CommentStatusApproved CommentStatus = "APPROVED"
	CommentStatusRejected CommentStatus = "REJECTED"
	CommentStatusSpam     CommentStatus = "SPAM"
)

// MaxCommentDepth is the deepest level a comment may sit at: roots are 0,
// replies 1 and replies-to-replies 2.
const MaxCommentDepth = 2

// Comment is a node in a blog's reply tree. Replies is populated by the
// listing query and is never persisted through this field.
type Comment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Status    CommentStatus `gorm:"size:16;not null;index" json:"status"`
	LikeCount int           `gorm:"not null;default:0" json:"likeCount"`
	BlogID    uint          `gorm:"not null;index" json:"blogId"`
	UserID    uint          `gorm:"not null;index" json:"userId"`
	ParentID  *uint         `gorm:"index" json:"parentId"`
	User      *UserSummary  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Blog      *BlogRef      `gorm:"foreignKey:BlogID;constraint:-" json:"blog,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	Replies []*Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies"`
}

// BlogRef is the narrow blog projection attached to comments in activity
// listings.
type BlogRef struct {
	ID    uint   `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// TableName maps BlogRef onto the blogs table.
func (BlogRef) TableName() string {
	return "blogs"
}

// IsApproved reports whether the comment is visible to non-owners.
func (c *Comment) IsApproved() bool {
	return c.Status == CommentStatusApproved
}

// NodeID, ParentNodeID, ChildNodes and SetChildNodes let commenttree
// operate on stored comments.
func (c *Comment) NodeID() uint { return c.ID }

func (c *Comment) ParentNodeID() (uint, bool) {
	if c.ParentID == nil {
		return 0, false
	}
	return *c.ParentID, true
}

func (c *Comment) ChildNodes() []*Comment { return c.Replies }

func (c *Comment) SetChildNodes(children []*Comment) { c.Replies = children }
