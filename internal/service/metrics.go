package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons recorded by reviewsRejected.
const (
	reasonMissingField    = "missing_field"
	reasonUnknownLocation = "unknown_location"
)

var (
	scoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "review_sentiment_scoring_duration_seconds",
		Help:    "Time spent scoring the reviews of a single listing request.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	})

	reviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "review_created_total",
		Help: "Total number of reviews accepted.",
	})

	reviewsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_rejected_total",
		Help: "Total number of review submissions rejected, by reason.",
	}, []string{"reason"})
)
