package directoryapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/thedirecttree/directory-gateway/internal/models"
)

// BusinessPhotos calls GET /business/{id}/photos
func (c *Client) BusinessPhotos(ctx context.Context, businessID string) ([]models.Photo, error) {
	var out []models.Photo
	err := c.doList(ctx, "/business/{id}/photos", "/business/"+escape(businessID)+"/photos", nil, "photos", &out)
	return out, err
}

// UploadPhotos calls POST /business/{id}/upload-photos with every file in one
// multipart batch under the "files" field.
func (c *Client) UploadPhotos(ctx context.Context, businessID string, files []models.UploadFile) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to upload")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.Filename))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			return fmt.Errorf("failed to create multipart part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write multipart part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	_, err := c.send(ctx, &request{
		method:      http.MethodPost,
		route:       "/business/{id}/upload-photos",
		path:        "/business/" + escape(businessID) + "/upload-photos",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
	return err
}

// DeletePhoto calls DELETE /photos/{id}
func (c *Client) DeletePhoto(ctx context.Context, photoID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/photos/{id}", "/photos/"+escape(photoID), nil, nil, nil)
}
