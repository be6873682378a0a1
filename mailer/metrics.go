// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// metrics holds the delivery counters of a Mailer
type metrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// newMetrics registers the delivery metrics with reg. Collectors that are already
// registered are reused, so several Mailers can share a Registerer.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mailit",
			Subsystem: "mailer",
			Name:      "send_duration_seconds",
			Help:      "Duration of message deliveries",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"transport", "status"},
	)
	total := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mailit",
			Subsystem: "mailer",
			Name:      "messages_total",
			Help:      "Total number of delivered and failed messages",
		},
		[]string{"transport", "status"},
	)

	var err error
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if total, err = register(reg, total); err != nil {
		return nil, err
	}
	return &metrics{duration: duration, total: total}, nil
}

// register registers collector with reg or returns the collector registered before.
func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			if existing, ok := alreadyRegistered.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

// observe records the outcome of a single delivery.
func (m *metrics) observe(transport string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.duration.WithLabelValues(transport, status).Observe(time.Since(start).Seconds())
	m.total.WithLabelValues(transport, status).Inc()
}
