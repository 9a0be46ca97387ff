// Package metrics holds the Prometheus collectors of the compiler and the
// output reader. Collectors live in a private registry so the CLI can export
// them to a node-exporter textfile at exit.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Registry gathers every collector of this package.
var Registry = prometheus.NewRegistry()

var (
	CompilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appvalues_compiles_total",
			Help: "Total number of value compilations by app type and result",
		},
		[]string{"app_type", "result"},
	)

	CompileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "appvalues_compile_duration_seconds",
			Help:    "Value compilation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"app_type"},
	)

	OutputReadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appvalues_output_reads_total",
			Help: "Total number of output document reads by app type and result",
		},
		[]string{"app_type", "result"},
	)

	SecretOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appvalues_secret_ops_total",
			Help: "Total number of platform secret store calls by operation and result",
		},
		[]string{"op", "result"},
	)

	SecretRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appvalues_secret_put_retries_total",
			Help: "Total number of retried platform secret writes",
		},
	)

	CleanupFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appvalues_cleanup_failures_total",
			Help: "Total number of secret deletions that failed during output cleanup",
		},
	)
)

func init() {
	Registry.MustRegister(CompilesTotal)
	Registry.MustRegister(CompileDuration)
	Registry.MustRegister(OutputReadsTotal)
	Registry.MustRegister(SecretOpsTotal)
	Registry.MustRegister(SecretRetriesTotal)
	Registry.MustRegister(CleanupFailuresTotal)
	Registry.MustRegister(collectors.NewGoCollector())
}

// Result maps err to ResultSuccess or ResultError.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// ObserveCompile records one compilation.
func ObserveCompile(appType string, start time.Time, err error) {
	CompilesTotal.WithLabelValues(appType, Result(err)).Inc()
	CompileDuration.WithLabelValues(appType).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes the registry in the text exposition format to path.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
