package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReactionOutcomes counts react calls by their tagged outcome
	// (created, switched, removed).
	ReactionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_reaction_outcomes_total",
		Help: "Reaction operations by outcome.",
	}, []string{"outcome"})

	// CacheMisses counts cache-aside fills by key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_cache_misses_total",
		Help: "Cache-aside misses by key prefix.",
	}, []string{"prefix"})

	// RedisErrors counts failed Redis commands.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_redis_errors_total",
		Help: "Redis command errors by command name.",
	}, []string{"command"})
)

// InitMetrics creates the Prometheus HTTP middleware for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
