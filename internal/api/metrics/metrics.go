// Package metrics defines and registers all custom Prometheus metrics for
// the e-commerce API identity core. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register on the default registry via promauto at package load;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecommerce"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "validation_error", "duplicate", "role_failure", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests rejected by the auth and RBAC
// middleware before reaching a handler.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token", "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or authorization middleware.",
	},
	[]string{"reason"},
)
