package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/storage"
	"github.com/MatsalakO/social-meda-api/store"
	"github.com/MatsalakO/social-meda-api/utils"
)

const (
	maxPostLength    = 255
	maxHashtagLength = 55
)

// PostInput carries post fields. Nil fields are left unchanged on update.
type PostInput struct {
	Content *string `json:"content"`
	Hashtag *string `json:"hashtag"`
}

// PostService manages the lifecycle of posts.
type PostService struct {
	store  store.Store
	images storage.ImageStore
	log    *zap.Logger
}

// NewPostService creates a PostService.
func NewPostService(st store.Store, images storage.ImageStore, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{store: st, images: images, log: logger}
}

func (in PostInput) apply(p *models.Post) error {
	if in.Content != nil {
		p.Content = strings.TrimSpace(utils.Sanitize(*in.Content))
	}
	if in.Hashtag != nil {
		p.Hashtag = strings.TrimSpace(utils.Sanitize(*in.Hashtag))
	}
	if err := checkText("content", p.Content, maxPostLength, true); err != nil {
		return err
	}
	return checkText("hashtag", p.Hashtag, maxHashtagLength, false)
}

// CreatePost publishes a post owned by actorID.
func (s *PostService) CreatePost(ctx context.Context, actorID uint, in PostInput) (*models.Post, error) {
	p := &models.Post{UserID: actorID}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("post created", zap.Uint("user_id", actorID), zap.Uint("post_id", p.ID))
	return p, nil
}

func (s *PostService) ownedPost(ctx context.Context, actorID, id uint) (*models.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Post not found.")
		}
		return nil, err
	}
	if p.UserID != actorID {
		return nil, newError(ErrForbidden, "You do not have permission to perform this action.")
	}
	return p, nil
}

// UpdatePost changes a post owned by actorID.
func (s *PostService) UpdatePost(ctx context.Context, actorID, id uint, in PostInput) (*models.Post, error) {
	p, err := s.ownedPost(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.store.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes a post owned by actorID along with its comments and likes.
func (s *PostService) DeletePost(ctx context.Context, actorID, id uint) error {
	if _, err := s.ownedPost(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	s.log.Info("post deleted", zap.Uint("user_id", actorID), zap.Uint("post_id", id))
	return nil
}

// UploadImage attaches an image to a post owned by actorID.
func (s *PostService) UploadImage(ctx context.Context, actorID, id uint, up Upload) (*models.Post, error) {
	p, err := s.ownedPost(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	owner := "post"
	if prof, err := s.store.GetProfileByUser(ctx, actorID); err == nil {
		owner = prof.Username
	}
	url, err := saveImage(ctx, s.images, storage.PostImages, owner, up)
	if err != nil {
		return nil, err
	}
	p.Image = url
	if err := s.store.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
