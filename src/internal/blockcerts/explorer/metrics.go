// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package explorer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes recorded in the requests counter.
const (
	outcomeSuccess    = "success"
	outcomeFetchError = "fetch_error"
	outcomeParseError = "parse_error"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blockcerts",
			Subsystem: "explorer",
			Name:      "requests_total",
			Help:      "Explorer lookups by explorer and outcome",
		},
		[]string{"explorer", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blockcerts",
			Subsystem: "explorer",
			Name:      "request_duration_seconds",
			Help:      "Explorer fetch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"explorer"},
	)
)
