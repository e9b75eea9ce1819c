package models

import "time"

// Follow is a directed edge from Follower to Following. The pair is unique
// and a user cannot follow themselves.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair;check:chk_follows_not_self,follower_id <> following_id" json:"followerId"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`

	Follower  User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

// BlogLike records that a user liked a blog.
type BlogLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_blog_like_pair" json:"userId"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_blog_like_pair;index" json:"blogId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bookmark records that a user saved a blog for later.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_pair" json:"userId"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_pair;index" json:"blogId"`
	CreatedAt time.Time `json:"createdAt"`
}
