package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/service"
	"github.com/carlaabellana/ElCofre/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes the catalog store's positional HTTP contract: each
// collection is a JSON list under the group identifier, and deletes and
// updates address records by their current zero-based position.
type Handler struct {
	catalog *service.CatalogService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *service.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.HEAD("/", h.probe)
	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	group := router.Group("/:group")
	{
		group.GET("/products", h.listProducts)
		group.POST("/products", h.createProduct)
		group.DELETE("/products/:pos", h.deleteProduct)
		group.PUT("/products/:pos", h.updateProduct)

		group.GET("/shops", h.listShops)
		group.POST("/shops", h.createShop)
		group.DELETE("/shops/:pos", h.deleteShop)
		group.PUT("/shops/:pos", h.updateShop)
	}
}

// probe answers the reachability HEAD clients send before every call.
func (h *Handler) probe(c *gin.Context) {
	c.Status(http.StatusOK)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list products",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) createProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.catalog.CreateProduct(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to create product",
			"details": err.Error(),
		})
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	pos, ok := position(c)
	if !ok {
		return
	}

	deleted, err := h.catalog.RemoveProduct(c.Request.Context(), pos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete product",
			"details": err.Error(),
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "No product at position"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateProduct(c *gin.Context) {
	pos, ok := position(c)
	if !ok {
		return
	}

	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.catalog.ReplaceProduct(c.Request.Context(), pos, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update product",
			"details": err.Error(),
		})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "No product at position"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) listShops(c *gin.Context) {
	shops, err := h.catalog.ListShops(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list shops",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, shops)
}

func (h *Handler) createShop(c *gin.Context) {
	var shop models.Shop
	if err := c.ShouldBindJSON(&shop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.catalog.CreateShop(c.Request.Context(), shop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to create shop",
			"details": err.Error(),
		})
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) deleteShop(c *gin.Context) {
	pos, ok := position(c)
	if !ok {
		return
	}

	deleted, err := h.catalog.RemoveShop(c.Request.Context(), pos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete shop",
			"details": err.Error(),
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "No shop at position"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateShop(c *gin.Context) {
	pos, ok := position(c)
	if !ok {
		return
	}

	var shop models.Shop
	if err := c.ShouldBindJSON(&shop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.catalog.ReplaceShop(c.Request.Context(), pos, shop)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update shop",
			"details": err.Error(),
		})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "No shop at position"})
		return
	}
	c.Status(http.StatusOK)
}

// position parses the :pos path parameter, answering 400 itself when it
// is not a non-negative integer.
func position(c *gin.Context) (int, bool) {
	pos, err := strconv.Atoi(c.Param("pos"))
	if err != nil || pos < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid position"})
		return 0, false
	}
	return pos, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
