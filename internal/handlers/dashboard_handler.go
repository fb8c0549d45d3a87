package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/models"
	"github.com/thedirecttree/directory-gateway/internal/services"
)

// maxPhotoBytes caps a single uploaded photo
const maxPhotoBytes = 10 << 20

// DashboardHandler serves the business owner dashboard: subscription and gallery
type DashboardHandler struct {
	subscriptions *services.SubscriptionService
	gallery       *services.GalleryService
	logger        *logrus.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(subscriptions *services.SubscriptionService, gallery *services.GalleryService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		subscriptions: subscriptions,
		gallery:       gallery,
		logger:        logger,
	}
}

// Dashboard handles GET /dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	view, err := h.subscriptions.Dashboard(c.Request.Context(), vs)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load subscription status")
		return
	}
	c.JSON(http.StatusOK, view)
}

// StartSubscription handles POST /dashboard/subscription
func (h *DashboardHandler) StartSubscription(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	approval, err := h.subscriptions.Start(c.Request.Context(), vs)
	if err != nil {
		respondError(c, h.logger, err, "Failed to start subscription")
		return
	}
	c.JSON(http.StatusOK, approval)
}

// CancelSubscription handles POST /dashboard/subscription/cancel?confirm=true
func (h *DashboardHandler) CancelSubscription(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	status, err := h.subscriptions.Cancel(c.Request.Context(), vs, confirmation(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to cancel subscription")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription cancelled",
		"subscription": status,
	})
}

// SubscriptionSuccess handles GET /subscription/success
func (h *DashboardHandler) SubscriptionSuccess(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	result, err := h.subscriptions.Execute(c.Request.Context(), vs, c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err, "Failed to activate subscription")
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubscriptionCancel handles GET /subscription/cancel
func (h *DashboardHandler) SubscriptionCancel(c *gin.Context) {
	c.JSON(http.StatusOK, h.subscriptions.Cancelled())
}

// Photos handles GET /dashboard/photos?business_id=
func (h *DashboardHandler) Photos(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}
	businessID, ok := requireBusinessID(c)
	if !ok {
		return
	}

	photos, err := h.gallery.Photos(c.Request.Context(), vs, businessID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load photos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// UploadPhotos handles POST /dashboard/photos?business_id= with a multipart
// body of one or more "files" parts
func (h *DashboardHandler) UploadPhotos(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}
	businessID, ok := requireBusinessID(c)
	if !ok {
		return
	}

	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		headers = form.File["files"]
	}

	files, err := readUploads(headers)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_upload",
			Message: err.Error(),
		})
		return
	}

	photos, err := h.gallery.Upload(c.Request.Context(), vs, businessID, files)
	if err != nil {
		respondError(c, h.logger, err, "Failed to upload photos")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("%d photo(s) uploaded", len(files)),
		"photos":  photos,
	})
}

// DeletePhoto handles DELETE /dashboard/photos/:id?business_id=&confirm=true
func (h *DashboardHandler) DeletePhoto(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}
	businessID, ok := requireBusinessID(c)
	if !ok {
		return
	}

	photos, err := h.gallery.Delete(c.Request.Context(), vs, businessID, c.Param("id"), confirmation(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Photo deleted",
		"photos":  photos,
	})
}

// readUploads loads each image part into memory
func readUploads(headers []*multipart.FileHeader) ([]models.UploadFile, error) {
	files := make([]models.UploadFile, 0, len(headers))
	for _, fh := range headers {
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return nil, fmt.Errorf("%s is not an image", fh.Filename)
		}
		if fh.Size > maxPhotoBytes {
			return nil, fmt.Errorf("%s exceeds the %d MB limit", fh.Filename, maxPhotoBytes>>20)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}

		files = append(files, models.UploadFile{
			Filename:    fh.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}
	return files, nil
}
