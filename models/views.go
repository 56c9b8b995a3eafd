package models

import "time"

// Response shapes. Each API action renders exactly one of these; see
// controllers for the action-to-shape mapping.

// ProfileListItem is a profile row annotated with follow counts computed at read time.
type ProfileListItem struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user"`
	Username       string    `json:"username"`
	Image          string    `json:"image"`
	CreatedAt      time.Time `json:"created_at"`
	FollowingCount int64     `json:"following_count"`
	FollowersCount int64     `json:"followers_count"`
}

// ProfileDetail is a profile plus the usernames on both sides of its follows.
type ProfileDetail struct {
	ID          uint       `json:"id"`
	User        UserView   `json:"user"`
	Username    string     `json:"username"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	CreatedAt   time.Time  `json:"created_at"`
	BirthDate   *time.Time `json:"birth_date"`
	Following   []string   `json:"following"`
	Followers   []string   `json:"followers"`
}

// ProfileView is returned by profile create and update.
type ProfileView struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	BirthDate   *time.Time `json:"birth_date"`
	CreatedAt   time.Time  `json:"created_at"`
	Description string     `json:"description"`
}

// ImageView is returned by image uploads.
type ImageView struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

// UserView is the public part of an account.
type UserView struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// PostListItem is a post annotated with counts and its owner's username.
type PostListItem struct {
	ID            uint      `json:"id"`
	ProfileName   string    `json:"profile_name"`
	Content       string    `json:"content"`
	Image         string    `json:"image"`
	Posted        time.Time `json:"posted"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
}

// PostView is returned by post create and update.
type PostView struct {
	ID      uint      `json:"id"`
	UserID  uint      `json:"user"`
	Content string    `json:"content"`
	Hashtag string    `json:"hashtag"`
	Posted  time.Time `json:"posted"`
}

// CommentListItem is a comment with its author's username.
type CommentListItem struct {
	ID          uint      `json:"id"`
	ProfileName string    `json:"profile_name"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProfileView shapes a profile for write responses.
func NewProfileView(p *Profile) ProfileView {
	return ProfileView{
		ID:          p.ID,
		Username:    p.Username,
		BirthDate:   p.BirthDate,
		CreatedAt:   p.CreatedAt,
		Description: p.Description,
	}
}

// NewPostView shapes a post for write responses.
func NewPostView(p *Post) PostView {
	return PostView{
		ID:      p.ID,
		UserID:  p.UserID,
		Content: p.Content,
		Hashtag: p.Hashtag,
		Posted:  p.Posted,
	}
}
