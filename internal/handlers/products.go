package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bendito/catalog-api/internal/catalog"
	"github.com/bendito/catalog-api/internal/validation"
)

// RegisterProductRoutes registers routes for the products API.
func RegisterProductRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/api/products", func(c *gin.Context) {
		products, err := cfg.Catalog.ListProducts(c.Request.Context())
		if err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, products)
	})

	r.GET("/api/products/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		product, err := cfg.Catalog.GetProduct(c.Request.Context(), id)
		if err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	})

	r.POST("/api/products", func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		product := catalog.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			StockQuantity: req.StockQuantity,
			CategoryID:    req.CategoryID,
		}
		if err := cfg.Catalog.CreateProduct(c.Request.Context(), &product); err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.Header("Location", fmt.Sprintf("/api/products/%d", product.ID))
		c.JSON(http.StatusCreated, product)
	})

	r.PUT("/api/products/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req validation.UpdateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if id != req.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id_mismatch", "msg": "path id does not match payload id"})
			return
		}
		product := catalog.Product{
			ID:            req.ID,
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			StockQuantity: req.StockQuantity,
			CategoryID:    req.CategoryID,
			Version:       req.Version,
		}
		if err := cfg.Catalog.UpdateProduct(c.Request.Context(), &product); err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.DELETE("/api/products/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := cfg.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
