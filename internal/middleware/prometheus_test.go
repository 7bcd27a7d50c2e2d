// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	io_prometheus_client "github.com/prometheus/client_model/go"

	"github.com/tomtom215/serielens/internal/metrics"
)

func requestCount(method, route, status string) float64 {
	var m io_prometheus_client.Metric
	if err := metrics.APIRequestsTotal.WithLabelValues(method, route, status).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestPrometheusMetricsLabelsByRoutePattern(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/prom-test/items/{itemID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := requestCount(http.MethodGet, "/prom-test/items/{itemID}", "418")
	for _, id := range []string{"lost_vf", "lost_vo", "friends_vo"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prom-test/items/"+id, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d, want 418", rec.Code)
		}
	}

	if got := requestCount(http.MethodGet, "/prom-test/items/{itemID}", "418") - before; got != 3 {
		t.Errorf("requests under the route pattern = %v, want 3", got)
	}
}

func TestPrometheusMetricsDefaultsToOK(t *testing.T) {
	t.Parallel()

	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	before := requestCount(http.MethodPatch, UnmatchedRoute, "200")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/no-router", nil))

	if got := requestCount(http.MethodPatch, UnmatchedRoute, "200") - before; got != 1 {
		t.Errorf("unmatched 200 delta = %v, want 1", got)
	}
}

func TestMetricsResponseWriterKeepsFirstStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want 404", rw.statusCode)
	}
	if rw.Unwrap() != rec {
		t.Error("Unwrap() did not return the wrapped writer")
	}
}
