package models

import (
	"time"
)

// BlogStatus is the publication lifecycle state of a blog.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "DRAFT"
	BlogStatusPublished BlogStatus = "PUBLISHED"
	BlogStatusArchived  BlogStatus = "ARCHIVED"
	BlogStatusScheduled BlogStatus = "SCHEDULED"
)

// Content formats. Markdown bodies can be rendered to HTML; block documents
// are opaque JSON produced by the editor.
const (
	ContentFormatMarkdown = "markdown"
	ContentFormatBlocks   = "blocks"
)

// Blog is an authored post. CommentCount, LikeCount and BookmarkCount are
// denormalized counters maintained transactionally by the repositories.
type Blog struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Slug            string       `gorm:"uniqueIndex;not null" json:"slug"`
	Title           string       `gorm:"size:100;not null" json:"title"`
	Content         string       `gorm:"type:text;not null" json:"content"`
	ContentFormat   string       `gorm:"size:16;not null;default:markdown" json:"contentFormat"`
	ContentHTML     string       `gorm:"-" json:"contentHtml,omitempty"`
	Excerpt         string       `gorm:"type:text" json:"excerpt"`
	FeaturedImage   string       `json:"featuredImage"`
	Status          BlogStatus   `gorm:"size:16;not null;index" json:"status"`
	PublishedAt     *time.Time   `gorm:"index" json:"publishedAt"`
	ScheduledFor    *time.Time   `json:"scheduledFor,omitempty"`
	MetaTitle       string       `gorm:"size:150" json:"metaTitle"`
	MetaDescription string       `gorm:"size:300" json:"metaDescription"`
	IsPremium       bool         `gorm:"not null" json:"isPremium"`
	AllowComments   bool         `gorm:"not null" json:"allowComments"`
	ReadingTime     int          `gorm:"not null;default:0" json:"readingTime"`
	ViewCount       int          `gorm:"not null;default:0" json:"viewCount"`
	LikeCount       int          `gorm:"not null;default:0" json:"likeCount"`
	CommentCount    int          `gorm:"not null;default:0" json:"commentCount"`
	BookmarkCount   int          `gorm:"not null;default:0" json:"bookmarkCount"`
	AuthorID        uint         `gorm:"not null;index" json:"authorId"`
	Author          *UserSummary `gorm:"foreignKey:AuthorID;constraint:-" json:"author,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`

	Comments  []Comment  `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
	Likes     []BlogLike `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
	Bookmarks []Bookmark `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsPublished reports whether the blog is publicly visible.
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// TableName pins UserSummary to the users table so it can be preloaded as a
// narrow projection of User.
func (UserSummary) TableName() string {
	return "users"
}
