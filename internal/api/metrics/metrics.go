// Package metrics defines and registers all custom Prometheus metrics for the
// CRM API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully registered accounts.
// Label:
//   - role: "client", "specialist" or "admin"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered user accounts, by role.",
	},
	[]string{"role"},
)

// ── Deal metrics ──────────────────────────────────────────────────────────────

// DealsCreatedTotal counts newly created deals.
// Label:
//   - service_type: the requested service type ("unspecified" when empty)
var DealsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deals_created_total",
		Help:      "Total number of deals created, by service type.",
	},
	[]string{"service_type"},
)

// DealStageChangesTotal counts applied stage transitions.
// Label:
//   - stage: the stage the deal moved to
var DealStageChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deal_stage_changes_total",
		Help:      "Total number of deal stage transitions, by target stage.",
	},
	[]string{"stage"},
)
