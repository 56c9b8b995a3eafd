package models

import "time"

// Post is a piece of content owned by one account.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"index;not null" json:"user"`
	Content  string    `gorm:"size:255;not null" json:"content"`
	Hashtag  string    `gorm:"size:55" json:"hashtag"`
	Image    string    `gorm:"size:512" json:"image"`
	Posted   time.Time `gorm:"autoCreateTime;index" json:"posted"`
	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Likes    []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
