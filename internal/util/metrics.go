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

	ProductsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_removed_total",
		Help: "Total number of products removed",
	})

	ReviewsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_added_total",
		Help: "Total number of product reviews added",
	})

	ShopsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shops_created_total",
		Help: "Total number of shops created",
	}, []string{"business_model"})

	CatalogueUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_updates_total",
		Help: "Total number of catalogue additions and removals",
	}, []string{"op"})

	CartLinesAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_lines_added_total",
		Help: "Total number of lines added to carts",
	})

	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of confirmed checkouts",
	})

	EarningsPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "earnings_posted_total",
		Help: "Total earnings amount posted to shops",
	})

	EarningsPostFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "earnings_post_failed_total",
		Help: "Total number of failed earnings postings",
	})

	RegularShopsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "regular_shops_total",
		Help: "Total number of shops that crossed their loyalty threshold",
	})

	StoreRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_requests_total",
		Help: "Total number of backend store requests",
	}, []string{"backend", "op", "outcome"})

	RemoteProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remote_probes_total",
		Help: "Total number of remote availability probes",
	}, []string{"outcome"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total number of collection cache hits",
	}, []string{"collection"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total number of collection cache misses",
	}, []string{"collection"})

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
