// Package metrics exposes the console's Prometheus collectors.
package metrics

import (
	"errors"
	"net/http"

	"github.com/kiwari-pos/console/internal/apperr"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/menu"
	"github.com/kiwari-pos/console/internal/order"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the console's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	statusUpdates *prometheus.CounterVec
	menuMutations *prometheus.CounterVec
	imageEncodes  *prometheus.CounterVec
	orders        *prometheus.GaugeVec
	menuItems     prometheus.Gauge
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statusUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_order_status_updates_total",
				Help: "Order status change requests by target status and result",
			},
			[]string{"status", "result"},
		),
		menuMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_menu_mutations_total",
				Help: "Menu create, update and delete operations by result",
			},
			[]string{"op", "result"},
		),
		imageEncodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_image_encodes_total",
				Help: "Uploaded images encoded to data URIs by result",
			},
			[]string{"result"},
		),
		orders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "console_orders",
				Help: "Orders in the current snapshot by status",
			},
			[]string{"status"},
		),
		menuItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "console_menu_items",
			Help: "Items currently on the menu",
		}),
	}
	m.registry.MustRegister(
		m.statusUpdates,
		m.menuMutations,
		m.imageEncodes,
		m.orders,
		m.menuItems,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// StatusUpdate records the outcome of a status change request.
func (m *Metrics) StatusUpdate(status string, err error) {
	m.statusUpdates.WithLabelValues(status, result(err)).Inc()
}

// MenuMutation records the outcome of a menu create, update or delete.
func (m *Metrics) MenuMutation(op string, err error) {
	m.menuMutations.WithLabelValues(op, result(err)).Inc()
}

// ImageEncode records the outcome of an image upload.
func (m *Metrics) ImageEncode(err error) {
	m.imageEncodes.WithLabelValues(result(err)).Inc()
}

// ObserveOrders sets the per-status order gauges from a snapshot.
func (m *Metrics) ObserveOrders(orders []order.Order) {
	counts := make(map[string]int, len(enum.OrderStatuses))
	for _, o := range orders {
		counts[o.Status]++
	}
	for _, s := range enum.OrderStatuses {
		m.orders.WithLabelValues(s).Set(float64(counts[s]))
	}
}

// ObserveMenu sets the menu size gauge.
func (m *Metrics) ObserveMenu(items []menu.Item) {
	m.menuItems.Set(float64(len(items)))
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrValidation):
		return "invalid"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
