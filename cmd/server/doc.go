// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

/*
Command server serves subtitle search and series recommendations over HTTP.

The server loads the artifacts written by cmd/indexer from
index.artifact_dir (INDEX_DIR) and checks them again every
index.reload_interval, swapping newer builds in without a restart. Until a
first build exists, search and keyword endpoints answer 503 while ratings
and popularity keep working against the configured store.

POST /api/v1/index/rebuild runs the same build in process and swaps the
result in when it completes. It shares build.lock with cmd/indexer, so a
rebuild and an indexer run never overlap. Set INDEX_REBUILD_ENABLED=false
to leave building to cmd/indexer alone.

	serielens
	├── data-layer
	│   └── index-reload
	└── api-layer
	    └── http-server

# Configuration

Settings come from built-in defaults, an optional YAML file (CONFIG_PATH or
./config.yaml) and environment variables, in increasing precedence:

	HTTP_PORT=8080 STORAGE_BACKEND=sqlite STORAGE_PATH=data/ratings.db ./server

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to server.shutdown_timeout before exiting.
*/
package main
