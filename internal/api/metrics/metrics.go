// Package metrics defines the custom Prometheus metrics of the credential
// service. HTTP request metrics come from the echoprometheus middleware; the
// collectors here count credential outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "akira"
	subsystem = "auth"
)

// Operation labels.
const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpUpdatePassword = "update_password"
)

// AuthOperationsTotal counts credential operations by outcome.
// Labels:
//   - operation: register, login or update_password
//   - result: "success" or the error kind (conflict, not_found, bad_request, unauthorized, internal)
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "operations_total",
		Help:      "Total number of credential operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthOperationDuration measures service time per credential operation.
// Password hashing dominates, so buckets extend past the default.
var AuthOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "operation_duration_seconds",
		Help:      "Duration of credential operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	},
	[]string{"operation"},
)
