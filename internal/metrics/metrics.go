// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Index Metrics
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "serielens_index_build_duration_seconds",
			Help:    "Duration of full index builds (preprocess, vectorize, keywords, persist)",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serielens_index_builds_total",
			Help: "Total index builds by result",
		},
		[]string{"result"}, // "success", "error", "in_progress"
	)

	IndexDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "serielens_index_documents",
			Help: "Number of documents (items) in the active index",
		},
	)

	IndexVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "serielens_index_vocabulary_size",
			Help: "Number of terms in the active vocabulary",
		},
	)

	IndexBuiltAt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "serielens_index_built_at_seconds",
			Help: "Unix time the active index was built",
		},
	)

	IndexLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serielens_index_loads_total",
			Help: "Index artifact loads by result",
		},
		[]string{"result"}, // "swapped", "unchanged", "missing", "error"
	)

	// Search Metrics
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serielens_search_requests_total",
			Help: "Search requests by outcome",
		},
		[]string{"outcome"}, // "ok", "invalid", "unavailable"
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "serielens_search_duration_seconds",
			Help:    "Time spent scoring a search query",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serielens_recommend_requests_total",
			Help: "Recommendation requests by requested strategy and the strategy that served them",
		},
		[]string{"strategy", "served_by"},
	)

	RecommendFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serielens_recommend_fallbacks_total",
			Help: "Recommendations served by the popularity fallback, by reason",
		},
		[]string{"strategy", "reason"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "serielens_recommend_duration_seconds",
			Help:    "Time spent computing recommendations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// Rating Metrics
	RatingWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serielens_rating_writes_total",
			Help: "Rating upserts and deletes by result",
		},
		[]string{"operation", "result"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serielens_api_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "serielens_api_active_requests",
			Help: "HTTP requests currently being served",
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "serielens_api_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordIndexBuild records one finished index build.
func RecordIndexBuild(duration time.Duration, documents, vocabulary int, builtAt time.Time, err error) {
	if err != nil {
		IndexBuildsTotal.WithLabelValues("error").Inc()
		return
	}
	IndexBuildDuration.Observe(duration.Seconds())
	IndexBuildsTotal.WithLabelValues("success").Inc()
	SetActiveIndex(documents, vocabulary, builtAt)
}

// SetActiveIndex publishes the shape of the index currently serving reads.
func SetActiveIndex(documents, vocabulary int, builtAt time.Time) {
	IndexDocuments.Set(float64(documents))
	IndexVocabularySize.Set(float64(vocabulary))
	IndexBuiltAt.Set(float64(builtAt.Unix()))
}

// RecordSearch records a search call.
func RecordSearch(duration time.Duration, outcome string) {
	SearchRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		SearchDuration.Observe(duration.Seconds())
	}
}

// RecordRecommendation records a served recommendation. reason is empty when
// the requested strategy served the call itself.
func RecordRecommendation(strategy, servedBy, reason string, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(strategy, servedBy).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if reason != "" {
		RecommendFallbacksTotal.WithLabelValues(strategy, reason).Inc()
	}
}

// RecordRatingWrite records a rating upsert or delete.
func RecordRatingWrite(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	RatingWritesTotal.WithLabelValues(operation, result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight request gauge up or down.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordIndexLoad records one artifact reload attempt.
func RecordIndexLoad(result string) {
	IndexLoadsTotal.WithLabelValues(result).Inc()
}
