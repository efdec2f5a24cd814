package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/docshub/backend/internal/storage"
	"github.com/docshub/backend/pkg/logger"
	"github.com/docshub/backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// RegisterUploadRoutes registers the multipart file upload endpoint. The
// archive is optional: when nil, uploads are only transformed into data URLs.
func RegisterUploadRoutes(r *gin.Engine, archive *storage.UploadArchive) {
	r.POST("/api/upload", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		mime := fh.Header.Get("Content-Type")
		if mime == "" {
			mime = "application/octet-stream"
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))

		if archive != nil {
			// best effort: an archive failure never fails the upload
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			if key, err := archive.Put(ctx, filepath.Base(fh.Filename), mime, data); err != nil {
				logger.Warnf("upload archive failed: %v", err)
			} else {
				logger.Debugf("archived upload as %s", key)
			}
		}

		metrics.Uploads.Inc()
		c.JSON(http.StatusOK, gin.H{"data_url": dataURL, "mime": mime})
	})
}
