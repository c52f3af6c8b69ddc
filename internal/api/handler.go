package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"jewelry-backend/internal/service"
	"jewelry-backend/internal/store"
	"jewelry-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	products  *service.ProductService
	orders    *service.OrderService
	uploads   *service.UploadService
	dashboard *service.DashboardService
	store     *store.Store
	startedAt time.Time
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	products *service.ProductService,
	orders *service.OrderService,
	uploads *service.UploadService,
	dashboard *service.DashboardService,
	store *store.Store,
) *Handler {
	return &Handler{
		products:  products,
		orders:    orders,
		uploads:   uploads,
		dashboard: dashboard,
		store:     store,
		startedAt: time.Now(),
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes. uploadDir is served statically under
// the public /uploads prefix.
func (h *Handler) SetupRoutes(router *gin.Engine, uploadDir string) {
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Static("/uploads", uploadDir)

	router.GET("/products", h.listProducts)
	router.GET("/products/search", h.searchProducts)
	router.GET("/products/category/:category", h.listProductsByCategory)
	router.GET("/products/:id", h.getProduct)
	router.POST("/products", h.createProduct)
	router.PUT("/products/:id", h.updateProduct)
	router.DELETE("/products/:id", h.deleteProduct)

	router.POST("/upload/image", h.uploadImage)
	router.POST("/upload/base64", h.uploadBase64)
	router.POST("/upload/url", h.uploadFromURL)

	router.POST("/orders", h.createOrder)
	router.GET("/orders", h.listOrders)
	router.GET("/orders/recent", h.listRecentOrders)
	router.GET("/orders/:id", h.getOrder)

	router.GET("/dashboard/summary", h.dashboardSummary)
}

// healthCheck reports store connectivity and process uptime
func (h *Handler) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	health := "healthy"
	database := "connected"
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		health = "degraded"
		database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   health,
		"database": database,
		"uptime":   time.Since(h.startedAt).Seconds(),
		"time":     time.Now().Unix(),
	})
}

// dashboardSummary serves the sales dashboard aggregate
func (h *Handler) dashboardSummary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondError maps service errors to HTTP statuses. Unexpected errors
// become a generic 500; details stay in the server log.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
	case errors.Is(err, service.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product category"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing order data"})
	case errors.Is(err, service.ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing base64 image data"})
	case errors.Is(err, service.ErrPayloadRejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image rejected: must be an image up to 5 MB"})
	case errors.Is(err, service.ErrFetchFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch image from URL"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

const requestIDKey = "request_id"

// requestIDMiddleware assigns a request ID when the client sent none
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
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
