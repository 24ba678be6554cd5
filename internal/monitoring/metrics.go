package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsMinted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_minted_total",
			Help: "Tickets minted per event",
		},
		[]string{"event_id"},
	)

	ticketsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Completed secondary sales per event",
		},
		[]string{"event_id"},
	)

	ticketsRedeemed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_redeemed_total",
			Help: "Tickets burned at venue entry per event",
		},
		[]string{"event_id"},
	)

	listingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_operations_total",
			Help: "Marketplace listing operations",
		},
		[]string{"operation", "status"},
	)

	settlementFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_failures_total",
			Help: "Purchases rolled back because settlement failed",
		},
	)

	reconciliationItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconciliation_items_total",
			Help: "Burn confirmations that could not reach the off-chain store",
		},
	)
)

func RecordMint(eventID string) {
	ticketsMinted.WithLabelValues(eventID).Inc()
}

func RecordSale(eventID string) {
	ticketsSold.WithLabelValues(eventID).Inc()
}

func RecordRedemption(eventID string) {
	ticketsRedeemed.WithLabelValues(eventID).Inc()
}

func RecordListingOperation(operation, status string) {
	listingOperations.WithLabelValues(operation, status).Inc()
}

func RecordSettlementFailure() {
	settlementFailures.Inc()
}

func RecordReconciliationItem() {
	reconciliationItems.Inc()
}
