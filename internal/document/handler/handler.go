package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/docshub/backend/internal/database"
	"github.com/docshub/backend/internal/document"
	"github.com/docshub/backend/internal/document/service"
	"github.com/docshub/backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// RegisterDocumentRoutes registers the document CRUD endpoints.
func RegisterDocumentRoutes(r *gin.Engine, svc *service.Service) {
	r.POST("/api/docs", createDoc(svc))
	r.GET("/api/docs", listDocs(svc))
	r.GET("/api/docs/:slug", getDoc(svc))
	r.DELETE("/api/docs/:slug", deleteDoc(svc))
}

func createDoc(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload document.Document
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id, slug, err := svc.Create(c.Request.Context(), &payload)
		if err != nil {
			failDoc(c, err)
			return
		}
		metrics.DocumentsCreated.Inc()
		c.JSON(http.StatusOK, gin.H{"id": id, "slug": slug})
	}
}

func listDocs(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
		if err != nil {
			limit = service.DefaultLimit
		}
		items, err := svc.List(c.Request.Context(), service.ListQuery{
			Category: c.Query("category"),
			Tag:      c.Query("tag"),
			Q:        c.Query("q"),
			Limit:    limit,
		})
		if err != nil {
			failDoc(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func getDoc(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			failDoc(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func deleteDoc(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
			failDoc(c, err)
			return
		}
		metrics.DocumentsDeleted.Inc()
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// failDoc maps service errors onto HTTP statuses: validation and duplicates
// are client errors, missing slugs are 404, a disconnected store is 503 and
// anything else from the store is a plain 500.
func failDoc(c *gin.Context, err error) {
	var verr *document.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, service.ErrDuplicateSlug):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A document with this slug already exists"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, database.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": database.ErrUnavailable.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
