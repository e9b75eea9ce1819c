// Package schema defines the request and response shapes shared by the API
// server and its Go client. Validation rules are declared as struct tags and
// enforced by internal/validation on the server and by the client before a
// request is sent.
package schema

import (
	"encoding/json"
	"strings"
	"time"
)

// Statuses accepted on the wire.
const (
	BlogStatusDraft     = "DRAFT"
	BlogStatusPublished = "PUBLISHED"
	BlogStatusArchived  = "ARCHIVED"
	BlogStatusScheduled = "SCHEDULED"

	CommentStatusPending  = "PENDING"
	CommentStatusApproved = "APPROVED"
	CommentStatusRejected = "REJECTED"
	CommentStatusSpam     = "SPAM"
)

// SignupInput is the body of POST /auth/signup.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

// SigninInput is the body of POST /auth/signin.
type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateBlogInput is the body of POST /blog. Content is either a markdown
// string of at least 10 characters or an editor block document.
type CreateBlogInput struct {
	Title           string          `json:"title" validate:"required,min=3,max=100"`
	Content         json.RawMessage `json:"content" validate:"blogcontent"`
	Excerpt         string          `json:"excerpt" validate:"max=500"`
	FeaturedImage   string          `json:"featuredImage" validate:"urlorempty"`
	Status          string          `json:"status" validate:"omitempty,blogstatus"`
	MetaTitle       string          `json:"metaTitle" validate:"max=150"`
	MetaDescription string          `json:"metaDescription" validate:"max=300"`
	IsPremium       bool            `json:"isPremium"`
	AllowComments   *bool           `json:"allowComments"`
	ReadingTime     *int            `json:"readingTime" validate:"omitempty,min=1,max=600"`
	ScheduledFor    *time.Time      `json:"scheduledFor"`
}

// UpdateBlogInput is the body of PUT /blog. Nil fields are left untouched.
type UpdateBlogInput struct {
	ID              uint            `json:"id" validate:"required"`
	Title           *string         `json:"title" validate:"omitempty,min=3,max=100"`
	Content         json.RawMessage `json:"content" validate:"omitempty,blogcontent"`
	Excerpt         *string         `json:"excerpt" validate:"omitempty,max=500"`
	FeaturedImage   *string         `json:"featuredImage" validate:"omitempty,urlorempty"`
	Status          *string         `json:"status" validate:"omitempty,blogstatus"`
	MetaTitle       *string         `json:"metaTitle" validate:"omitempty,max=150"`
	MetaDescription *string         `json:"metaDescription" validate:"omitempty,max=300"`
	IsPremium       *bool           `json:"isPremium"`
	AllowComments   *bool           `json:"allowComments"`
	ReadingTime     *int            `json:"readingTime" validate:"omitempty,min=1,max=600"`
	ScheduledFor    *time.Time      `json:"scheduledFor"`
}

// CreateCommentInput is the body of POST /comments/:blogId.
type CreateCommentInput struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID *uint  `json:"parentId" validate:"omitempty,min=1"`
}

// UpdateCommentInput is the body of PUT /comments/:commentId.
type UpdateCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CommentStatusInput is the body of PUT /comments/:commentId/status.
type CommentStatusInput struct {
	Status string `json:"status" validate:"required,commentstatus"`
}

// UpdateProfileInput is the body of PUT /profile. Nil fields are left
// untouched; URL fields accept an empty string to clear them.
type UpdateProfileInput struct {
	Name               *string `json:"name" validate:"omitempty,max=100"`
	FirstName          *string `json:"firstName" validate:"omitempty,max=50"`
	LastName           *string `json:"lastName" validate:"omitempty,max=50"`
	Bio                *string `json:"bio" validate:"omitempty,max=500"`
	ProfileImage       *string `json:"profileImage" validate:"omitempty,urlorempty"`
	CoverImage         *string `json:"coverImage" validate:"omitempty,urlorempty"`
	Website            *string `json:"website" validate:"omitempty,urlorempty"`
	Location           *string `json:"location" validate:"omitempty,max=100"`
	TwitterHandle      *string `json:"twitterHandle" validate:"omitempty,max=50"`
	LinkedinURL        *string `json:"linkedinUrl" validate:"omitempty,urlorempty"`
	GithubURL          *string `json:"githubUrl" validate:"omitempty,urlorempty"`
	InstagramURL       *string `json:"instagramUrl" validate:"omitempty,urlorempty"`
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
	DateOfBirth        *Date   `json:"dateOfBirth"`
}

// AuthorProfileInput is the body of POST /profile/author.
type AuthorProfileInput struct {
	Tagline   *string  `json:"tagline" validate:"omitempty,max=200"`
	Expertise []string `json:"expertise" validate:"omitempty,max=10,dive,min=1,max=50"`
	ShowEmail *bool    `json:"showEmail"`
}

// UpdateBasicProfileInput is the body of PUT /user/updateProfile.
type UpdateBasicProfileInput struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,urlorempty"`
}

// Pagination is the paging block of list responses.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// NewPagination fills HasMore from the window and total.
func NewPagination(limit, offset, total int) Pagination {
	return Pagination{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		HasMore: offset+limit < total,
	}
}

// Date accepts either a calendar date (2006-01-02) or an RFC 3339
// timestamp, and an empty string or null as "unset".
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var raw *string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, *raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return &time.ParseError{Layout: "2006-01-02", Value: *raw, Message: ": expected a date or RFC 3339 timestamp"}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}
