package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	internalaws "github.com/bendito/catalog-api/internal/aws"
	"github.com/bendito/catalog-api/internal/catalog"
	"github.com/bendito/catalog-api/internal/orders"
	"github.com/bendito/catalog-api/internal/validation"
)

// RegisterOrderRoutes registers routes for the orders API.
func RegisterOrderRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/api/orders", func(c *gin.Context) {
		list, err := cfg.Orders.List(c.Request.Context())
		if err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/api/orders/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		order, err := cfg.Orders.Get(c.Request.Context(), id)
		if err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.POST("/api/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		// Already validated by the struct-level check; parse for the value.
		orderDate, err := validation.ParseOrderDate(req.OrderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order_date", "msg": err.Error()})
			return
		}

		newOrder := orders.NewOrder{
			UserID:      req.UserID,
			OrderDate:   orderDate,
			TotalAmount: req.TotalAmount,
			Items:       make([]orders.NewOrderItem, 0, len(req.Items)),
		}
		// Caller-supplied item totals are dropped here; the store recomputes
		// them from the product price.
		for _, item := range req.Items {
			newOrder.Items = append(newOrder.Items, orders.NewOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := cfg.Orders.Create(ctx, newOrder)
		if err != nil {
			var missing *catalog.ProductNotFoundError
			if errors.As(err, &missing) {
				c.JSON(http.StatusNotFound, gin.H{
					"error":      "product_not_found",
					"product_id": missing.ProductID,
					"msg":        missing.Error(),
				})
				return
			}
			writeStoreError(c, cfg.Logger, err)
			return
		}

		notifyOrderEvent(c, cfg, internalaws.EventOrderCreated, internalaws.MetricOrdersCreated, order.ID)

		c.Header("Location", fmt.Sprintf("/api/orders/%d", order.ID))
		c.JSON(http.StatusCreated, order)
	})

	r.PUT("/api/orders/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req validation.UpdateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if id != req.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id_mismatch", "msg": "path id does not match payload id"})
			return
		}
		orderDate, err := validation.ParseOrderDate(req.OrderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order_date", "msg": err.Error()})
			return
		}

		order := orders.Order{
			ID:          req.ID,
			UserID:      req.UserID,
			OrderDate:   orderDate,
			TotalAmount: req.TotalAmount,
			Version:     req.Version,
		}
		if err := cfg.Orders.Update(c.Request.Context(), &order); err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.DELETE("/api/orders/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := cfg.Orders.Delete(c.Request.Context(), id); err != nil {
			writeStoreError(c, cfg.Logger, err)
			return
		}

		notifyOrderEvent(c, cfg, internalaws.EventOrderDeleted, internalaws.MetricOrdersDeleted, id)

		c.Status(http.StatusNoContent)
	})
}

// notifyOrderEvent publishes the lifecycle event and bumps the counter when
// those collaborators are configured. Failures are logged, never surfaced:
// the order is already durably written.
func notifyOrderEvent(c *gin.Context, cfg HandlerConfig, event, metric string, orderID int64) {
	ctx := c.Request.Context()
	if cfg.Publisher != nil {
		if err := cfg.Publisher.PublishOrderEvent(ctx, event, orderID, c.GetString(requestIDKey)); err != nil {
			cfg.Logger.WithError(err).WithField("order_id", orderID).Warn("order event publish failed")
		}
	}
	if cfg.Metrics != nil {
		if err := cfg.Metrics.Count(ctx, metric); err != nil {
			cfg.Logger.WithError(err).WithField("metric", metric).Warn("metric emit failed")
		}
	}
}
