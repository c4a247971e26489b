package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	snapshotSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "reap",
		Name:      "snapshot_processes",
		Help:      "Number of processes in the current snapshot.",
	})

	refreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reap",
		Name:      "refreshes_total",
		Help:      "Total number of completed snapshot refresh cycles.",
	})

	refreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reap",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of snapshot refresh cycles in seconds.",
	})

	trackedResults = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "reap",
		Name:      "tracked_results",
		Help:      "Number of UI results currently tracked for reconciliation.",
	})

	nameCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reap",
		Name:      "name_cache_hits_total",
		Help:      "Friendly-name lookups served from the cache.",
	})

	nameCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reap",
		Name:      "name_cache_misses_total",
		Help:      "Friendly-name lookups that required resolution.",
	})

	hostUpdateFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reap",
		Name:      "host_update_failures_total",
		Help:      "Result updates the UI host rejected or failed to apply.",
	})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "reap",
		Name:      "build_info",
		Help:      "Build metadata for the running reap binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(
		snapshotSize,
		refreshes,
		refreshDuration,
		trackedResults,
		nameCacheHits,
		nameCacheMisses,
		hostUpdateFailures,
		buildInfo,
	)
}

// Registry returns the Prometheus registry containing all reap metrics.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveRefresh records one completed refresh cycle.
func ObserveRefresh(processes int, d time.Duration) {
	snapshotSize.Set(float64(processes))
	refreshDuration.Observe(d.Seconds())
	refreshes.Inc()
}

// SetTrackedResults records the current tracker population.
func SetTrackedResults(n int) {
	trackedResults.Set(float64(n))
}

// IncNameCacheHit counts a cache-served name lookup.
func IncNameCacheHit() {
	nameCacheHits.Inc()
}

// IncNameCacheMiss counts a name lookup that ran the strategy chain.
func IncNameCacheMiss() {
	nameCacheMisses.Inc()
}

// IncHostUpdateFailure counts a failed or rejected host result update.
func IncHostUpdateFailure() {
	hostUpdateFailures.Inc()
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}
