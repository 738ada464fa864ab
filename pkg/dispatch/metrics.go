// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for dispatch tables.
// A nil *Metrics records nothing.
type Metrics struct {
	fires         *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
	handlerErrors *prometheus.CounterVec
	tableEntries  prometheus.Gauge
}

// NewMetrics creates the dispatch collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "evdispatch",
				Subsystem: "dispatch",
				Name:      "fires_total",
				Help:      "Total number of events fired",
			},
			[]string{"event"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "evdispatch",
				Subsystem: "dispatch",
				Name:      "deliveries_total",
				Help:      "Total number of handler invocations",
			},
			[]string{"event"},
		),
		handlerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "evdispatch",
				Subsystem: "dispatch",
				Name:      "handler_errors_total",
				Help:      "Total number of firings aborted by a handler error",
			},
			[]string{"event"},
		),
		tableEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "evdispatch",
				Subsystem: "dispatch",
				Name:      "table_entries",
				Help:      "Number of entries in the most recently built table",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.fires, m.deliveries, m.handlerErrors, m.tableEntries)
	}
	return m
}

func (m *Metrics) observeBuild(t *Table) {
	if m == nil {
		return
	}
	m.tableEntries.Set(float64(t.Len()))
}

func (m *Metrics) observeFire(event string, delivered int, failed bool) {
	if m == nil {
		return
	}
	m.fires.WithLabelValues(event).Inc()
	// the failing handler was invoked too
	if failed {
		delivered++
		m.handlerErrors.WithLabelValues(event).Inc()
	}
	m.deliveries.WithLabelValues(event).Add(float64(delivered))
}

// Entries returns the table size gauge.
func (m *Metrics) Entries() prometheus.Gauge { return m.tableEntries }

// Fires returns the fire counter for event.
func (m *Metrics) Fires(event string) prometheus.Counter {
	return m.fires.WithLabelValues(event)
}

// Deliveries returns the handler invocation counter for event.
func (m *Metrics) Deliveries(event string) prometheus.Counter {
	return m.deliveries.WithLabelValues(event)
}

// HandlerErrors returns the handler error counter for event.
func (m *Metrics) HandlerErrors(event string) prometheus.Counter {
	return m.handlerErrors.WithLabelValues(event)
}
