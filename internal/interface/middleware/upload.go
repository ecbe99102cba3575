package middleware

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/internal/domain/apperror"
	"github.com/oksasatya/go-places-api/internal/domain/storage"
	"github.com/oksasatya/go-places-api/pkg/response"
)

const ctxPendingFileKey = "pending_file"

var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpeg",
}

// ImageUpload stores the multipart field as a png or jpeg image and registers
// it with the resource manager. When the handler answers with an error status
// and has not settled the file itself, the file is rolled back.
func ImageUpload(field string, maxBytes int64, files storage.FileStore, resources *application.ResourceManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			// multipart overhead on top of the file itself
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+64*1024)
		}
		fh, err := c.FormFile(field)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				response.Fail(c, apperror.InvalidInput("image is too large"))
				return
			}
			response.Fail(c, apperror.InvalidInput("an image is required"))
			return
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			response.Fail(c, apperror.InvalidInput("image is too large"))
			return
		}
		contentType := strings.ToLower(fh.Header.Get("Content-Type"))
		ext, ok := imageTypes[contentType]
		if !ok {
			response.Fail(c, apperror.InvalidInput("invalid mime type, expected png or jpeg"))
			return
		}
		if e := strings.ToLower(filepath.Ext(fh.Filename)); e == ".jpg" || e == ".jpeg" || e == ".png" {
			ext = e
		}

		src, err := fh.Open()
		if err != nil {
			response.Fail(c, apperror.InvalidInput("could not read image"))
			return
		}
		path, err := files.Save(c.Request.Context(), uuid.NewString()+ext, src, contentType)
		_ = src.Close()
		if err != nil {
			response.Fail(c, apperror.Unavailable(err))
			return
		}

		pending := resources.Register(path)
		c.Set(ctxPendingFileKey, pending)
		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			pending.Rollback(c.Request.Context())
		}
	}
}

// PendingFileFrom returns the file registered by ImageUpload, or nil.
func PendingFileFrom(c *gin.Context) *application.PendingFile {
	v, ok := c.Get(ctxPendingFileKey)
	if !ok {
		return nil
	}
	f, _ := v.(*application.PendingFile)
	return f
}
