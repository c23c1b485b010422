package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operation outcomes
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// OperationsTotal counts the public marketplace operations by outcome.
// Precondition failures are counted as rejected, internal and settlement
// failures as error.
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "niftyd",
		Name:      "operations_total",
		Help:      "Number of marketplace operations processed, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// WebhookSubscriptionsTotal counts the webhook subscribe/unsubscribe
// requests.
var WebhookSubscriptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "niftyd",
		Name:      "webhook_subscriptions_total",
		Help:      "Number of webhook subscription requests, by action.",
	},
	[]string{"action"},
)
