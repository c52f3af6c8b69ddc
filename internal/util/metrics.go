package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	ProductsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_updated_total",
		Help: "Total number of products updated",
	})

	ProductsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "Total number of products deleted",
	})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of rejected order submissions",
	}, []string{"reason"})

	ImagesIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "images_ingested_total",
		Help: "Total number of images ingested, by input path",
	}, []string{"source"})

	ImagesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "images_rejected_total",
		Help: "Total number of rejected image payloads",
	}, []string{"reason"})

	ImageIngestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "image_ingest_latency_seconds",
		Help:    "Latency of image ingestion operations",
		Buckets: prometheus.DefBuckets,
	})

	TempFileCleanupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "temp_file_cleanup_failures_total",
		Help: "Total number of temporary upload files that could not be removed",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
