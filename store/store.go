// Package store persists the social graph: accounts, profiles, posts,
// comments, likes and follows.
package store

import (
	"context"
	"errors"

	"github.com/MatsalakO/social-meda-api/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("store: duplicate record")
)

// ProfileFilter narrows profile listings. Empty fields are ignored; set fields
// are case-insensitive substring matches combined with AND.
type ProfileFilter struct {
	Username  string
	FirstName string
	LastName  string
}

// PostFilter narrows post listings. Hashtag is matched case-insensitively
// against the post content.
type PostFilter struct {
	Hashtag string
}

// Store is the persistence port used by the services.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateProfile(ctx context.Context, p *models.Profile) error
	UpdateProfile(ctx context.Context, p *models.Profile) error
	DeleteProfile(ctx context.Context, id uint) error
	GetProfile(ctx context.Context, id uint) (*models.Profile, error)
	GetProfileByUser(ctx context.Context, userID uint) (*models.Profile, error)
	ListProfiles(ctx context.Context, f ProfileFilter) ([]models.ProfileListItem, error)
	FollowingUsernames(ctx context.Context, userID uint) ([]string, error)
	FollowerUsernames(ctx context.Context, userID uint) ([]string, error)

	FollowExists(ctx context.Context, followerID, followedID uint) (bool, error)
	CreateFollow(ctx context.Context, f *models.Follow) error
	// DeleteFollow returns the number of rows removed.
	DeleteFollow(ctx context.Context, followerID, followedID uint) (int64, error)

	CreatePost(ctx context.Context, p *models.Post) error
	UpdatePost(ctx context.Context, p *models.Post) error
	// DeletePost removes the post together with its comments and likes.
	DeletePost(ctx context.Context, id uint) error
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	GetPostItem(ctx context.Context, id uint) (*models.PostListItem, error)
	ListPosts(ctx context.Context, f PostFilter) ([]models.PostListItem, error)

	CreateComment(ctx context.Context, c *models.Comment) error
	UpdateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
	// GetComment finds a comment by id that is attached to postID.
	GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error)
	ListComments(ctx context.Context, postID uint) ([]models.CommentListItem, error)

	LikeExists(ctx context.Context, userID, postID uint) (bool, error)
	CreateLike(ctx context.Context, l *models.Like) error
	// DeleteLike returns the number of rows removed.
	DeleteLike(ctx context.Context, userID, postID uint) (int64, error)
	ListLikesByPost(ctx context.Context, postID uint) ([]models.Like, error)
	ListLikesByUser(ctx context.Context, userID uint) ([]models.Like, error)
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*Memory)(nil)
)
