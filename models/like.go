package models

import "time"

// Like marks approval of a post. At most one per (user, post).
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post;index" json:"post"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
