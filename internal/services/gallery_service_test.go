package services

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedirecttree/directory-gateway/internal/models"
)

func galleryRoutes(fb *fakeBackend) *atomic.Int32 {
	var photos atomic.Int32
	photos.Store(1)
	fb.router.GET("/api/business/:id/photos", func(c *gin.Context) {
		out := make([]gin.H, 0)
		for i := int32(0); i < photos.Load(); i++ {
			out = append(out, gin.H{"id": "p", "thumbnail_url": "/t.jpg"})
		}
		c.JSON(http.StatusOK, gin.H{"photos": out})
	})
	fb.router.POST("/api/business/:id/upload-photos", func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		photos.Add(int32(len(form.File["files"])))
		c.JSON(http.StatusOK, gin.H{"message": "uploaded"})
	})
	fb.router.DELETE("/api/photos/:id", func(c *gin.Context) {
		photos.Add(-1)
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	})
	return &photos
}

func TestPhotos_FetchesOncePerBusiness(t *testing.T) {
	fb := newFakeBackend(t)
	galleryRoutes(fb)
	svc := NewGalleryService(testLogger())
	vs := newViewState(t, fb, "tok")

	for i := 0; i < 3; i++ {
		photos, err := svc.Photos(context.Background(), vs, "b-1")
		require.NoError(t, err)
		assert.Len(t, photos, 1)
	}
	assert.Equal(t, []string{"GET /api/business/b-1/photos"}, fb.paths())

	_, err := svc.Photos(context.Background(), vs, "b-2")
	require.NoError(t, err)
	assert.Len(t, fb.recorded(), 2)
}

func TestUpload(t *testing.T) {
	files := []models.UploadFile{
		{Filename: "front.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}},
		{Filename: "pool.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}},
	}

	t.Run("Refetches after one batch", func(t *testing.T) {
		fb := newFakeBackend(t)
		galleryRoutes(fb)
		photos, err := NewGalleryService(testLogger()).Upload(context.Background(), newViewState(t, fb, "tok"), "b-1", files)
		require.NoError(t, err)
		assert.Len(t, photos, 3)
		assert.Equal(t, []string{"POST /api/business/b-1/upload-photos", "GET /api/business/b-1/photos"}, fb.paths())
	})

	t.Run("No files", func(t *testing.T) {
		fb := newFakeBackend(t)
		_, err := NewGalleryService(testLogger()).Upload(context.Background(), newViewState(t, fb, "tok"), "b-1", nil)
		assert.ErrorIs(t, err, ErrNoFiles)
		assert.Empty(t, fb.recorded())
	})

	t.Run("Signed out", func(t *testing.T) {
		fb := newFakeBackend(t)
		_, err := NewGalleryService(testLogger()).Upload(context.Background(), newViewState(t, fb, ""), "b-1", files)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Empty(t, fb.recorded())
	})
}

func TestDeletePhoto(t *testing.T) {
	t.Run("Declined", func(t *testing.T) {
		fb := newFakeBackend(t)
		galleryRoutes(fb)
		_, err := NewGalleryService(testLogger()).Delete(context.Background(), newViewState(t, fb, "tok"), "b-1", "p-1", Confirmed(false))
		assert.ErrorIs(t, err, ErrNotConfirmed)
		assert.Empty(t, fb.recorded())
	})

	t.Run("Confirmed refetches", func(t *testing.T) {
		fb := newFakeBackend(t)
		galleryRoutes(fb)
		photos, err := NewGalleryService(testLogger()).Delete(context.Background(), newViewState(t, fb, "tok"), "b-1", "p-1", Confirmed(true))
		require.NoError(t, err)
		assert.Empty(t, photos)
		assert.Equal(t, []string{"DELETE /api/photos/p-1", "GET /api/business/b-1/photos"}, fb.paths())
	})
}
