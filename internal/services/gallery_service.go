package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

// GalleryService shows and manages a business's photos. Upload and delete
// refetch the whole gallery instead of editing it locally.
type GalleryService struct {
	logger *logrus.Logger
}

// NewGalleryService creates a new GalleryService
func NewGalleryService(logger *logrus.Logger) *GalleryService {
	return &GalleryService{logger: logger}
}

// Photos returns the gallery for businessID, fetching only when the
// business differs from the one shown last
func (s *GalleryService) Photos(ctx context.Context, vs *ViewState, businessID string) ([]models.Photo, error) {
	g := vs.Gallery
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loaded && g.businessID == businessID {
		return append([]models.Photo{}, g.photos...), nil
	}
	return s.fetchLocked(ctx, vs, businessID)
}

// Upload sends every file in one multipart batch, then refetches
func (s *GalleryService) Upload(ctx context.Context, vs *ViewState, businessID string, files []models.UploadFile) ([]models.Photo, error) {
	if vs.Session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	g := vs.Gallery
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := vs.API.UploadPhotos(ctx, businessID, files); err != nil {
		return nil, fmt.Errorf("failed to upload photos: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"business_id": businessID,
		"count":       len(files),
	}).Info("Photos uploaded")
	return s.fetchLocked(ctx, vs, businessID)
}

// Delete removes one photo after confirmation, then refetches
func (s *GalleryService) Delete(ctx context.Context, vs *ViewState, businessID, photoID string, c Confirmer) ([]models.Photo, error) {
	if err := confirm(ctx, c, PromptDeletePhoto); err != nil {
		return nil, err
	}

	g := vs.Gallery
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := vs.API.DeletePhoto(ctx, photoID); err != nil {
		return nil, fmt.Errorf("failed to delete photo: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"business_id": businessID,
		"photo_id":    photoID,
	}).Info("Photo deleted")
	return s.fetchLocked(ctx, vs, businessID)
}

func (s *GalleryService) fetchLocked(ctx context.Context, vs *ViewState, businessID string) ([]models.Photo, error) {
	g := vs.Gallery
	photos, err := vs.API.BusinessPhotos(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load photos: %w", err)
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	g.businessID = businessID
	g.photos = photos
	g.loaded = true
	return append([]models.Photo{}, photos...), nil
}
