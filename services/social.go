package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/store"
	"github.com/MatsalakO/social-meda-api/utils"
)

const maxCommentLength = 500

// SocialService implements follow/unfollow, like/unlike and comment ownership.
//
// Existence checks before inserts only produce friendlier messages. The unique
// indexes on (follower, followed) and (user, post) decide the outcome when two
// requests race, and their violations are reported as ErrConflict (follow) or
// absorbed (like).
type SocialService struct {
	store store.Store
	log   *zap.Logger
}

// NewSocialService creates a SocialService. A nil logger discards output.
func NewSocialService(st store.Store, logger *zap.Logger) *SocialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocialService{store: st, log: logger}
}

// followTarget resolves the acting and target profiles and rejects self-reference.
func (s *SocialService) followTarget(ctx context.Context, actorID, targetProfileID uint, selfMsg string) (*models.Profile, error) {
	actor, err := s.store.GetProfileByUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrInvalidOperation, "You need to create a profile first.")
		}
		return nil, err
	}
	if actor.ID == targetProfileID {
		return nil, newError(ErrInvalidOperation, selfMsg)
	}

	target, err := s.store.GetProfile(ctx, targetProfileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Profile not found.")
		}
		return nil, err
	}
	if target.UserID == actorID {
		return nil, newError(ErrInvalidOperation, selfMsg)
	}
	return target, nil
}

// Follow makes actorID follow the account owning targetProfileID.
func (s *SocialService) Follow(ctx context.Context, actorID, targetProfileID uint) error {
	target, err := s.followTarget(ctx, actorID, targetProfileID, "You cannot follow yourself.")
	if err != nil {
		return err
	}

	already := newError(ErrConflict, "You are already following this user")
	exists, err := s.store.FollowExists(ctx, actorID, target.UserID)
	if err != nil {
		return err
	}
	if exists {
		return already
	}

	if err := s.store.CreateFollow(ctx, &models.Follow{FollowerID: actorID, FollowedID: target.UserID}); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return already
		}
		return err
	}
	s.log.Info("follow created", zap.Uint("follower_id", actorID), zap.Uint("followed_id", target.UserID))
	return nil
}

// Unfollow removes the follow from actorID to the owner of targetProfileID.
func (s *SocialService) Unfollow(ctx context.Context, actorID, targetProfileID uint) error {
	target, err := s.followTarget(ctx, actorID, targetProfileID, "You cannot unfollow yourself.")
	if err != nil {
		return err
	}

	n, err := s.store.DeleteFollow(ctx, actorID, target.UserID)
	if err != nil {
		return err
	}
	if n == 0 {
		return newError(ErrInvalidOperation, "You are not following this user")
	}
	s.log.Info("follow removed", zap.Uint("follower_id", actorID), zap.Uint("followed_id", target.UserID))
	return nil
}

func (s *SocialService) loadPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Post not found.")
		}
		return nil, err
	}
	return post, nil
}

// Like records actorID's like on postID. It reports false when the like
// already existed, which is not an error.
func (s *SocialService) Like(ctx context.Context, actorID, postID uint) (bool, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return false, err
	}

	exists, err := s.store.LikeExists(ctx, actorID, postID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := s.store.CreateLike(ctx, &models.Like{UserID: actorID, PostID: postID}); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return false, nil
		case errors.Is(err, store.ErrNotFound):
			return false, newError(ErrNotFound, "Post not found.")
		}
		return false, err
	}
	s.log.Info("like created", zap.Uint("user_id", actorID), zap.Uint("post_id", postID))
	return true, nil
}

// Unlike removes actorID's like on postID.
func (s *SocialService) Unlike(ctx context.Context, actorID, postID uint) error {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return err
	}

	n, err := s.store.DeleteLike(ctx, actorID, postID)
	if err != nil {
		return err
	}
	if n == 0 {
		return newError(ErrInvalidOperation, "You have not liked this post")
	}
	s.log.Info("like removed", zap.Uint("user_id", actorID), zap.Uint("post_id", postID))
	return nil
}

func cleanComment(text string) (string, error) {
	text = strings.TrimSpace(utils.Sanitize(text))
	if err := checkText("text", text, maxCommentLength, true); err != nil {
		return "", err
	}
	return text, nil
}

// AddComment attaches a new comment owned by actorID to postID.
func (s *SocialService) AddComment(ctx context.Context, actorID, postID uint, text string) (*models.Comment, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}
	text, err := cleanComment(text)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{UserID: actorID, PostID: postID, Text: text}
	if err := s.store.CreateComment(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Post not found.")
		}
		return nil, err
	}
	s.log.Info("comment created", zap.Uint("user_id", actorID), zap.Uint("post_id", postID), zap.Uint("comment_id", c.ID))
	return c, nil
}

// GetComment returns commentID if it belongs to postID.
func (s *SocialService) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	c, err := s.store.GetComment(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Comment not found.")
		}
		return nil, err
	}
	return c, nil
}

// EditComment replaces the text of a comment owned by actorID.
func (s *SocialService) EditComment(ctx context.Context, actorID, postID, commentID uint, text string) (*models.Comment, error) {
	c, err := s.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != actorID {
		return nil, newError(ErrForbidden, "You do not have permission to edit this comment.")
	}
	text, err = cleanComment(text)
	if err != nil {
		return nil, err
	}

	c.Text = text
	if err := s.store.UpdateComment(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Comment not found.")
		}
		return nil, err
	}
	s.log.Info("comment edited", zap.Uint("user_id", actorID), zap.Uint("comment_id", c.ID))
	return c, nil
}

// DeleteComment removes a comment owned by actorID.
func (s *SocialService) DeleteComment(ctx context.Context, actorID, postID, commentID uint) error {
	c, err := s.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if c.UserID != actorID {
		return newError(ErrForbidden, "You do not have permission to delete this comment.")
	}
	if err := s.store.DeleteComment(ctx, c.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	s.log.Info("comment deleted", zap.Uint("user_id", actorID), zap.Uint("comment_id", c.ID))
	return nil
}

// ListLikesForProfile returns the likes made by the owner of profileID. Only
// that owner may see them.
func (s *SocialService) ListLikesForProfile(ctx context.Context, viewerID, profileID uint) ([]models.Like, error) {
	p, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Profile not found.")
		}
		return nil, err
	}
	if p.UserID != viewerID {
		return nil, newError(ErrForbidden, "You cannot see posts liked by other user")
	}
	return s.store.ListLikesByUser(ctx, p.UserID)
}
