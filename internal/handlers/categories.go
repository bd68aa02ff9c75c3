package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bendito/catalog-api/internal/catalog"
	"github.com/bendito/catalog-api/internal/validation"
)

// RegisterCategoryRoutes registers routes for the categories API.
func RegisterCategoryRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/api/categories", func(c *gin.Context) {
		categories, err := cfg.Catalog.ListCategories(c.Request.Context())
		if err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	r.GET("/api/categories/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		category, err := cfg.Catalog.GetCategory(c.Request.Context(), id)
		if err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, category)
	})

	r.POST("/api/categories", func(c *gin.Context) {
		var req validation.CreateCategoryRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		category := catalog.Category{
			Name:        req.Name,
			Description: req.Description,
		}
		if err := cfg.Catalog.CreateCategory(c.Request.Context(), &category); err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/api/categories/%d", category.ID))
		c.JSON(http.StatusCreated, category)
	})

	r.PUT("/api/categories/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req validation.UpdateCategoryRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if id != req.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id_mismatch", "msg": "path id does not match payload id"})
			return
		}
		category := catalog.Category{
			ID:          req.ID,
			Name:        req.Name,
			Description: req.Description,
			Version:     req.Version,
		}
		if err := cfg.Catalog.UpdateCategory(c.Request.Context(), &category); err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.DELETE("/api/categories/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := cfg.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
