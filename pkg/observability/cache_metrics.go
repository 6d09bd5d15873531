package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCacheHits   = "devpulse.cache.hits"
	metricCacheMisses = "devpulse.cache.misses"

	attrCache = "cache"
)

// CacheStatsProvider exposes cumulative hit/miss counts for a provider-level
// commit cache. Implemented by provider.Cache.
type CacheStatsProvider interface {
	CacheHits() int64
	CacheMisses() int64
}

// RegisterCacheMetrics registers async gauges that poll one CacheStatsProvider
// per named provider cache. A nil provider is skipped. Callers typically
// register one entry per provider kind, e.g. "github", "gitlab", "localclone".
func RegisterCacheMetrics(mt metric.Meter, caches map[string]CacheStatsProvider) error {
	hits, err := mt.Int64ObservableGauge(metricCacheHits,
		metric.WithDescription("Cumulative provider cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricCacheHits, err)
	}

	misses, err := mt.Int64ObservableGauge(metricCacheMisses,
		metric.WithDescription("Cumulative provider cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricCacheMisses, err)
	}

	_, err = mt.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		for name, cache := range caches {
			if cache == nil {
				continue
			}

			attrs := metric.WithAttributes(attribute.String(attrCache, name))
			obs.ObserveInt64(hits, cache.CacheHits(), attrs)
			obs.ObserveInt64(misses, cache.CacheMisses(), attrs)
		}

		return nil
	}, hits, misses)
	if err != nil {
		return fmt.Errorf("register cache metrics callback: %w", err)
	}

	return nil
}
