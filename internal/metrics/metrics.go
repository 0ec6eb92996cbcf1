// Package metrics holds the Prometheus collectors of the library service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	BorrowOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_borrow_operations_total",
			Help: "Borrow and return attempts by outcome",
		},
		[]string{"operation", "result"}, // operation: borrow|return
	)

	FinesRecalculated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_fines_recalculated_total",
			Help: "Borrowings whose fine was updated by a recalculation run",
		},
	)

	FineRecalculationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_fine_recalculation_runs_total",
			Help: "Fine recalculation runs by outcome",
		},
		[]string{"result"},
	)

	DigitalUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_digital_uploads_total",
			Help: "Digital book uploads by format and outcome",
		},
		[]string{"format", "result"},
	)
)

// RecordHTTPRequest records one served request. route is the mux pattern, not the raw path.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordBorrowOperation counts a borrow or return attempt; result is "ok" or an error code.
func RecordBorrowOperation(operation, result string) {
	BorrowOperations.WithLabelValues(operation, result).Inc()
}

func RecordFineRecalculation(updated int, err error) {
	if err != nil {
		FineRecalculationRuns.WithLabelValues("error").Inc()
		return
	}
	FineRecalculationRuns.WithLabelValues("ok").Inc()
	FinesRecalculated.Add(float64(updated))
}

func RecordDigitalUpload(format, result string) {
	DigitalUploads.WithLabelValues(format, result).Inc()
}
