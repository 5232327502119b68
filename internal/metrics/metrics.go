package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	actionsInterceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatewarden_actions_intercepted_total",
		Help: "Total number of actions run through the interception pipeline",
	})
	actionsAutoApprovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatewarden_actions_auto_approved_total",
		Help: "Total number of actions auto-approved by policy rules",
	})
	actionsAutoRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatewarden_actions_auto_rejected_total",
		Help: "Total number of actions auto-rejected by policy rules or compromise bypass",
	})
	actionsQueuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatewarden_actions_queued_total",
		Help: "Total number of actions queued for manual approval",
	})
	approvalsExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gatewarden_approvals_expired_total",
		Help: "Total number of pending approvals auto-rejected by the expiry sweep",
	})
	pendingApprovals = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gatewarden_pending_approvals",
		Help: "Current number of approvals awaiting a manual decision",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		actionsInterceptedTotal,
		actionsAutoApprovedTotal,
		actionsAutoRejectedTotal,
		actionsQueuedTotal,
		approvalsExpiredTotal,
		pendingApprovals,
	)
}

// IncIntercepted increments the intercepted actions counter.
func IncIntercepted() { actionsInterceptedTotal.Inc() }

// IncAutoApproved increments the auto-approved actions counter.
func IncAutoApproved() { actionsAutoApprovedTotal.Inc() }

// IncAutoRejected increments the auto-rejected actions counter.
func IncAutoRejected() { actionsAutoRejectedTotal.Inc() }

// IncQueued increments the queued-for-approval counter.
func IncQueued() { actionsQueuedTotal.Inc() }

// AddExpired adds to the expired approvals counter.
func AddExpired(n int) { approvalsExpiredTotal.Add(float64(n)) }

// SetPending sets the pending approvals gauge.
func SetPending(n int64) { pendingApprovals.Set(float64(n)) }
