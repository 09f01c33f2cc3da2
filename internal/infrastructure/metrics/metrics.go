package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics holds every Prometheus collector for the escrow flow.
type EscrowMetrics struct {
	// Transaction lifecycle
	TransactionsCreatedTotal   prometheus.CounterVec
	TransactionsCompletedTotal prometheus.CounterVec
	TransactionsCancelledTotal prometheus.CounterVec
	TransactionsRefundedTotal  prometheus.CounterVec
	TransactionsFlaggedTotal   prometheus.CounterVec

	// Amounts, in centavos
	EscrowHeldAmountTotal prometheus.CounterVec
	PlatformFeeTotal      prometheus.CounterVec

	// Auto-release sweep
	AutoReleasedTotal prometheus.Counter

	// Disputes
	DisputesOpenedTotal   prometheus.CounterVec
	DisputesResolvedTotal prometheus.CounterVec

	// Offers
	OffersCreatedTotal prometheus.Counter
	OffersExpiredTotal prometheus.Counter

	// Content filter
	MessagesBlockedTotal prometheus.CounterVec

	// Time from ESCROW_HELD to COMPLETED, in hours
	CompletionDuration prometheus.Histogram
}

func NewEscrowMetrics() *EscrowMetrics {
	return &EscrowMetrics{
		TransactionsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transactions_created_total",
				Help: "Total escrow transactions created",
			},
			[]string{"payment_method"},
		),

		TransactionsCompletedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transactions_completed_total",
				Help: "Total escrow transactions completed and released to the seller",
			},
			[]string{"released_by"},
		),

		TransactionsCancelledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transactions_cancelled_total",
				Help: "Total escrow transactions cancelled before payment",
			},
			[]string{"reason"},
		),

		TransactionsRefundedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transactions_refunded_total",
				Help: "Total escrow transactions refunded to the buyer",
			},
			[]string{"reason"},
		),

		TransactionsFlaggedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transactions_flagged_total",
				Help: "Total transactions flagged for manual review by the risk gate",
			},
			[]string{"risk_level"},
		),

		EscrowHeldAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_held_amount_centavos_total",
				Help: "Total amount that entered escrow, in centavos",
			},
			[]string{"payment_method"},
		),

		PlatformFeeTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_platform_fee_centavos_total",
				Help: "Total platform fee collected, in centavos",
			},
			[]string{"source"},
		),

		AutoReleasedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_auto_released_total",
				Help: "Total transactions released by the auto-release sweep",
			},
		),

		DisputesOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_opened_total",
				Help: "Total disputes opened",
			},
			[]string{"reason"},
		),

		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_resolved_total",
				Help: "Total disputes resolved",
			},
			[]string{"outcome"},
		),

		OffersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_offers_created_total",
				Help: "Total offers created on listings",
			},
		),

		OffersExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_offers_expired_total",
				Help: "Total offers expired without a response",
			},
		),

		MessagesBlockedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_messages_blocked_total",
				Help: "Total chat messages blocked by the content filter",
			},
			[]string{"violation"},
		),

		CompletionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "escrow_completion_duration_hours",
				Help:    "Hours between escrow hold and release",
				Buckets: []float64{1, 6, 12, 24, 48, 96, 168, 336},
			},
		),
	}
}
