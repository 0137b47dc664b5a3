// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockcerts_verification_steps_total",
		Help: "Verification steps run, by step and status.",
	}, []string{"step", "status"})

	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockcerts_verifications_total",
		Help: "Completed verification runs, by final status.",
	}, []string{"status"})
)
