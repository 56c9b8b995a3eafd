package models

import "time"

// Follow is a directed relation between two accounts. At most one per
// (follower, followed) pair; removed when either account is deleted.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"followed"`
	CreatedAt  time.Time `json:"created_at"`
	Follower   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Followed   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// All lists every schema model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Profile{}, &Post{}, &Comment{}, &Like{}, &Follow{}}
}
