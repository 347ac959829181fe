package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	claimsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cmcs_claims_submitted_total",
		Help: "Claims accepted and persisted",
	})

	claimTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmcs_claim_transitions_total",
			Help: "Claim status transitions by target status",
		},
		[]string{"to"},
	)

	attachmentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmcs_attachments_total",
			Help: "Uploaded claim documents by outcome",
		},
		[]string{"outcome"},
	)
)
