// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account on the blogging platform.
type User struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Email              string     `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Username           string     `gorm:"uniqueIndex;size:20;not null" json:"username"`
	Password           string     `gorm:"not null" json:"-"`
	Name               string     `gorm:"size:100" json:"name"`
	FirstName          string     `gorm:"size:50" json:"firstName,omitempty"`
	LastName           string     `gorm:"size:50" json:"lastName,omitempty"`
	Bio                string     `gorm:"size:500" json:"bio"`
	ProfileImage       string     `json:"profileImage"`
	CoverImage         string     `json:"coverImage"`
	Website            string     `json:"website"`
	Location           string     `gorm:"size:100" json:"location"`
	TwitterHandle      string     `gorm:"size:50" json:"twitterHandle"`
	LinkedinURL        string     `gorm:"column:linkedin_url" json:"linkedinUrl"`
	GithubURL          string     `gorm:"column:github_url" json:"githubUrl"`
	InstagramURL       string     `gorm:"column:instagram_url" json:"instagramUrl"`
	EmailNotifications bool       `gorm:"not null" json:"emailNotifications"`
	PushNotifications  bool       `gorm:"not null" json:"pushNotifications"`
	DateOfBirth        *time.Time `json:"dateOfBirth,omitempty"`
	IsAuthor           bool       `gorm:"not null" json:"isAuthor"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`

	AuthorProfile *AuthorProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"authorProfile,omitempty"`
	Blogs         []Blog         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"blogs,omitempty"`
}

// AuthorProfile holds author-facing settings and aggregate counters. It
// exists once a user has published, or explicitly created it.
type AuthorProfile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Tagline        string    `gorm:"size:200" json:"tagline"`
	Expertise      []string  `gorm:"serializer:json" json:"expertise"`
	TotalViews     int       `gorm:"not null;default:0" json:"totalViews"`
	TotalLikes     int       `gorm:"not null;default:0" json:"totalLikes"`
	TotalFollowers int       `gorm:"not null;default:0" json:"totalFollowers"`
	ShowEmail      bool      `gorm:"not null" json:"showEmail"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserSummary is the author/commenter shape embedded in blog and comment
// payloads.
type UserSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
}

// Summary returns the public identity fields of u.
func (u *User) Summary() *UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	}
}
