// Package handlers maps HTTP requests onto the catalog and order stores and
// translates store errors into status codes.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	internalaws "github.com/bendito/catalog-api/internal/aws"
	"github.com/bendito/catalog-api/internal/catalog"
	"github.com/bendito/catalog-api/internal/orders"
	"github.com/bendito/catalog-api/internal/storage"
)

// HandlerConfig groups dependencies for the API handlers. Publisher and
// Metrics are optional; when nil the corresponding notifications are skipped.
type HandlerConfig struct {
	Catalog   *catalog.Store
	Orders    *orders.Store
	Publisher *internalaws.Publisher
	Metrics   *internalaws.Metrics
	Logger    *logrus.Logger
}

// RegisterRoutes registers all API routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterCategoryRoutes(r, cfg)
	RegisterProductRoutes(r, cfg)
	RegisterOrderRoutes(r, cfg)
}

// pathID parses the :id segment. On failure it writes a 400 and returns false.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "msg": "id must be an integer"})
		return 0, false
	}
	return id, true
}

// writeStoreError maps a store failure to a response. Anything outside the
// known taxonomy is logged and surfaced as a 500.
func writeStoreError(c *gin.Context, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "msg": err.Error()})
	case errors.Is(err, storage.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "msg": err.Error()})
	default:
		log.WithError(err).WithField("request_id", c.GetString(requestIDKey)).
			Error("unexpected storage failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected"})
	}
}
