package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/storage"
	"github.com/MatsalakO/social-meda-api/store"
	"github.com/MatsalakO/social-meda-api/utils"
)

const (
	maxNameLength        = 255
	maxDescriptionLength = 255
	birthDateLayout      = "2006-01-02"
)

// ProfileInput carries profile fields. Nil fields are left unchanged on update.
type ProfileInput struct {
	Username    *string `json:"username"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	BirthDate   *string `json:"birth_date"`
	Description *string `json:"description"`
}

// Upload is an image file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProfileService manages the lifecycle of profiles.
type ProfileService struct {
	store  store.Store
	images storage.ImageStore
	log    *zap.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(st store.Store, images storage.ImageStore, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{store: st, images: images, log: logger}
}

func (in ProfileInput) apply(p *models.Profile) error {
	if in.Username != nil {
		p.Username = strings.TrimSpace(*in.Username)
	}
	if in.FirstName != nil {
		p.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		p.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(utils.Sanitize(*in.Description))
	}
	if in.BirthDate != nil {
		raw := strings.TrimSpace(*in.BirthDate)
		if raw == "" {
			p.BirthDate = nil
		} else {
			d, err := time.Parse(birthDateLayout, raw)
			if err != nil {
				return newError(ErrInvalid, "birth_date: Date has wrong format. Use YYYY-MM-DD.")
			}
			p.BirthDate = &d
		}
	}

	checks := []error{
		checkText("username", p.Username, maxNameLength, true),
		checkText("first_name", p.FirstName, maxNameLength, true),
		checkText("last_name", p.LastName, maxNameLength, true),
		checkText("description", p.Description, maxDescriptionLength, false),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateProfile creates the single profile of actorID.
func (s *ProfileService) CreateProfile(ctx context.Context, actorID uint, in ProfileInput) (*models.Profile, error) {
	if _, err := s.store.GetProfileByUser(ctx, actorID); err == nil {
		return nil, newError(ErrConflict, "You already have a profile.")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	p := &models.Profile{UserID: actorID}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.store.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, newError(ErrConflict, "A profile with that username already exists.")
		}
		return nil, err
	}
	s.log.Info("profile created", zap.Uint("user_id", actorID), zap.Uint("profile_id", p.ID))
	return p, nil
}

func (s *ProfileService) ownedProfile(ctx context.Context, actorID, id uint) (*models.Profile, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Profile not found.")
		}
		return nil, err
	}
	if p.UserID != actorID {
		return nil, newError(ErrForbidden, "You do not have permission to perform this action.")
	}
	return p, nil
}

// UpdateProfile changes a profile owned by actorID.
func (s *ProfileService) UpdateProfile(ctx context.Context, actorID, id uint, in ProfileInput) (*models.Profile, error) {
	p, err := s.ownedProfile(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, newError(ErrConflict, "A profile with that username already exists.")
		}
		return nil, err
	}
	return p, nil
}

// DeleteProfile removes a profile owned by actorID.
func (s *ProfileService) DeleteProfile(ctx context.Context, actorID, id uint) error {
	if _, err := s.ownedProfile(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.store.DeleteProfile(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	s.log.Info("profile deleted", zap.Uint("user_id", actorID), zap.Uint("profile_id", id))
	return nil
}

// UploadImage stores a new avatar for a profile owned by actorID.
func (s *ProfileService) UploadImage(ctx context.Context, actorID, id uint, up Upload) (*models.Profile, error) {
	p, err := s.ownedProfile(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	url, err := saveImage(ctx, s.images, storage.ProfileImages, p.Username, up)
	if err != nil {
		return nil, err
	}
	p.Image = url
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func saveImage(ctx context.Context, images storage.ImageStore, folder, owner string, up Upload) (string, error) {
	if images == nil {
		return "", newError(ErrInvalidOperation, "Image uploads are disabled.")
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", newError(ErrInvalid, "image: Upload a valid image.")
	}
	url, err := images.Save(ctx, storage.ImageKey(folder, owner, up.Filename), up.Body, up.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return "", newError(ErrInvalid, "image: File is too large.")
		}
		return "", err
	}
	return url, nil
}
