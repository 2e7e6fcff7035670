// Package metrics defines and registers all custom Prometheus metrics for the
// Archify session subsystem. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// embedding application decides whether and where to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "archify"

// Result label values shared by all session counters.
const (
	ResultOK          = "ok"
	ResultDenied      = "denied"
	ResultUnavailable = "unavailable"
	ResultDiscarded   = "discarded"
)

// LoginsTotal counts login and registration attempts.
// Labels:
//   - op: "login" or "register"
//   - result: "ok", "denied" (credential error) or "unavailable" (transport)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logins_total",
		Help:      "Total number of login/register attempts, by operation and result.",
	},
	[]string{"op", "result"},
)

// RefreshesTotal counts refresh-token exchanges.
// Label:
//   - result: "ok", "denied", "unavailable" or "discarded" (logout raced the exchange)
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refreshes_total",
		Help:      "Total number of refresh-token exchanges, by result.",
	},
	[]string{"result"},
)

// VerificationsTotal counts access-token verifications.
// Label:
//   - result: "ok", "denied", "unavailable" or "discarded"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_verifications_total",
		Help:      "Total number of access-token verifications, by result.",
	},
	[]string{"result"},
)

// RestoresTotal counts session restores from durable storage at startup.
// Label:
//   - result: "ok", "empty" or "corrupt" (user persisted without a token pair)
var RestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of startup session restores, by result.",
	},
	[]string{"result"},
)

// GuardDenialsTotal counts route-guard denials.
// Label:
//   - guard: "auth", "role" or "subscription"
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of navigation denials, by guard kind.",
	},
	[]string{"guard"},
)
