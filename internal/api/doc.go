// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

/*
Package api exposes search, catalog, ratings and recommendations over HTTP.

Routing uses chi. Every JSON response shares one envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "...", "message": "...", "details": ..., "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Endpoints (all under /api/v1):

	GET    /health                                    index status
	GET    /health/live                               liveness
	GET    /health/ready                              503 until an index is loaded
	GET    /search?q=&limit=&language=                free-text search
	GET    /items?language=                           catalog
	GET    /items/{itemID}/keywords?top=              keywords of one item
	GET    /items/{itemID}/ratings                    ratings of one item
	POST   /users                                     register or rename a user
	GET    /users/{userID}                            one user
	GET    /users/{userID}/ratings                    ratings of one user
	PUT    /users/{userID}/ratings/{itemID}           upsert a rating
	GET    /users/{userID}/ratings/{itemID}           current rating
	DELETE /users/{userID}/ratings/{itemID}           remove a rating
	GET    /recommendations/popular                   popularity ranking
	GET    /recommendations/users/{userID}/collaborative
	GET    /recommendations/users/{userID}/hybrid
	POST   /index/rebuild                             202, build runs in the background

GET /metrics serves Prometheus metrics outside the envelope.

Error mapping:

  - validation failures: 400 VALIDATION_FAILED
  - unknown ids: 404 NOT_FOUND
  - no index loaded: 503 SERVICE_UNAVAILABLE
  - overlapping index build: 409 CONFLICT
  - anything else: 500 INTERNAL_ERROR, with the cause logged but not returned
*/
package api
