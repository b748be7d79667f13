// Package metrics defines and registers all custom Prometheus metrics for
// the dealership site. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time; the router
// exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dealership"

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected" (unknown email and wrong password are
//     deliberately indistinguishable, so they share one label value)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "ok", "email_taken", "weak_password", "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer-token checks at the session bridge.
// Label:
//   - result: "ok" or "rejected" (expired and tampered are treated alike)
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// AuthDenialsTotal counts requests turned away by the authorization gates.
// Label:
//   - reason: "unauthenticated" (redirected to login) or "forbidden"
//     (wrong role, redirected to the dashboard)
var AuthDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denials_total",
		Help:      "Total number of requests denied by the authorization gates.",
	},
	[]string{"reason"},
)

// VehiclesTotal counts inventory mutations by staff.
// Label:
//   - action: "created", "updated", "deleted"
var VehiclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vehicles_total",
		Help:      "Total number of inventory vehicle mutations, by action.",
	},
	[]string{"action"},
)

// ReviewsSubmittedTotal counts accepted vehicle reviews.
var ReviewsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_submitted_total",
		Help:      "Total number of vehicle reviews accepted.",
	},
)
