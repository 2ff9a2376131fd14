package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ListingCacheReads counts listing-cache lookups by result (hit or miss).
	ListingCacheReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_listing_cache_reads_total",
		Help: "Total number of listing cache lookups by result",
	}, []string{"result"})

	// FollowTransitions counts follow state machine transitions by outcome.
	FollowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_follow_transitions_total",
		Help: "Total number of follow/unfollow transitions by outcome",
	}, []string{"outcome"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-level Prometheus middleware handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
