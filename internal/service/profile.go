package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	domainerrors "github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/media/images"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

// maxProfilePhotoSize bounds profile photo uploads.
const maxProfilePhotoSize = 5 << 20 // 5 MB

// ProfileService manages the authenticated user's own account surface.
type ProfileService struct {
	store  *store.Store
	images *images.Storage
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, images *images.Storage, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		images: images,
		logger: logger,
	}
}

// SetPhoto replaces the user's profile photo with the uploaded JPEG and
// updates the photo URL on the user document. The key is stable per
// user, so the old image is overwritten in place.
func (s *ProfileService) SetPhoto(ctx context.Context, user *domain.User, imgData []byte) (*domain.User, error) {
	if len(imgData) == 0 {
		return nil, domainerrors.InvalidRequest("photo data is empty")
	}
	if len(imgData) > maxProfilePhotoSize {
		return nil, domainerrors.Validation("photo exceeds the 5 MB limit")
	}
	if contentType := http.DetectContentType(imgData); contentType != "image/jpeg" {
		return nil, domainerrors.Validationf("photo must be a JPEG, got %s", contentType)
	}

	key := images.ProfileKey(user.ID)
	if err := s.images.Save(key, imgData); err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	user.PhotoURL = "/api/v1/files/" + key
	user.Touch()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Profile photo updated", "user_id", user.ID, "bytes", len(imgData))
	}
	return user, nil
}
