package services

import (
	"context"
	"errors"
	"strings"

	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/store"
)

// QueryService serves list and detail reads. Counts are computed per read.
type QueryService struct {
	store store.Store
}

// NewQueryService creates a QueryService.
func NewQueryService(st store.Store) *QueryService {
	return &QueryService{store: st}
}

// ListProfiles returns profiles matching every non-empty filter field.
func (q *QueryService) ListProfiles(ctx context.Context, f store.ProfileFilter) ([]models.ProfileListItem, error) {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	return q.store.ListProfiles(ctx, f)
}

// GetProfileDetail returns a profile with the usernames it follows and is followed by.
func (q *QueryService) GetProfileDetail(ctx context.Context, id uint) (*models.ProfileDetail, error) {
	p, err := q.store.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Profile not found.")
		}
		return nil, err
	}

	detail := &models.ProfileDetail{
		ID:          p.ID,
		User:        models.UserView{ID: p.UserID},
		Username:    p.Username,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		BirthDate:   p.BirthDate,
	}
	if u, err := q.store.GetUser(ctx, p.UserID); err == nil {
		detail.User.Email = u.Email
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if detail.Following, err = q.store.FollowingUsernames(ctx, p.UserID); err != nil {
		return nil, err
	}
	if detail.Followers, err = q.store.FollowerUsernames(ctx, p.UserID); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListPosts returns posts whose content contains the hashtag filter, if any.
func (q *QueryService) ListPosts(ctx context.Context, f store.PostFilter) ([]models.PostListItem, error) {
	f.Hashtag = strings.TrimPrefix(strings.TrimSpace(f.Hashtag), "#")
	return q.store.ListPosts(ctx, f)
}

// GetPostDetail returns one post in list shape.
func (q *QueryService) GetPostDetail(ctx context.Context, id uint) (*models.PostListItem, error) {
	item, err := q.store.GetPostItem(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Post not found.")
		}
		return nil, err
	}
	return item, nil
}

func (q *QueryService) requirePost(ctx context.Context, postID uint) error {
	if _, err := q.store.GetPost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(ErrNotFound, "Post not found.")
		}
		return err
	}
	return nil
}

// ListComments returns the comments on postID with their authors' usernames.
func (q *QueryService) ListComments(ctx context.Context, postID uint) ([]models.CommentListItem, error) {
	if err := q.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return q.store.ListComments(ctx, postID)
}

// ListLikes returns the likes on postID.
func (q *QueryService) ListLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	if err := q.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return q.store.ListLikesByPost(ctx, postID)
}
