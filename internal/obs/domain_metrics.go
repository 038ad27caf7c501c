package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartItemsAddedTotal counts cart add operations by outcome.
	CartItemsAddedTotal *prometheus.CounterVec
	// CartSessionsActive tracks the number of live cart sessions.
	CartSessionsActive prometheus.Gauge
	// CheckoutTotal counts checkout attempts by outcome.
	CheckoutTotal *prometheus.CounterVec
	// OrderMessageItems records the item count of successfully built orders.
	OrderMessageItems prometheus.Histogram
	// OrderLogRecordedTotal counts order log entries persisted by the worker.
	OrderLogRecordedTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers storefront Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartItemsAddedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Count of cart add operations by outcome.",
		}, []string{"result"})
		CartSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_sessions_active",
			Help:      "Number of cart sessions currently held in memory.",
		})
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout attempts by outcome.",
		}, []string{"result"})
		OrderMessageItems = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_message_items",
			Help:      "Distribution of item counts in built order messages.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		})
		OrderLogRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orderlog_recorded_total",
			Help:      "Number of order log entries persisted by the worker.",
		})

		registerCollector(reg, CartItemsAddedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartItemsAddedTotal = v
			}
		})
		registerCollector(reg, CartSessionsActive, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Gauge); ok {
				CartSessionsActive = v
			}
		})
		registerCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		registerCollector(reg, OrderMessageItems, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				OrderMessageItems = v
			}
		})
		registerCollector(reg, OrderLogRecordedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrderLogRecordedTotal = v
			}
		})
	})
}
