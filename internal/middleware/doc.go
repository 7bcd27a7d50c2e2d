// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: accepts or generates an X-Request-ID and stores it in the
    request context so logging.Ctx decorates every log line with it
  - PrometheusMetrics: request counts, latency and in-flight gauge labelled
    by the chi route pattern rather than the raw path

Both are chi-style func(http.Handler) http.Handler middleware:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

The route label is read after the handler returns, when chi has finished
matching; requests that match no route are labelled "unmatched".
*/
package middleware
