package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProofsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_proofs_submitted_total",
		Help: "Total number of payment proofs submitted",
	})

	ProofsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_proofs_approved_total",
		Help: "Total number of payment proofs approved",
	})

	ProofsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_proofs_rejected_total",
		Help: "Total number of payment proofs rejected",
	})

	CommissionsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commissions_posted_total",
			Help: "Total number of commission ledger rows posted",
		},
		[]string{"type"},
	)

	WithdrawalsRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "withdrawal_requests_total",
		Help: "Total number of withdrawal requests created",
	})

	WithdrawalsDecided = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdrawal_decisions_total",
			Help: "Total number of withdrawal requests decided",
		},
		[]string{"status"},
	)
)
