// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

/*
Package supervisor runs the long-lived parts of the server under suture v4.

The tree has two layers:

	serielens
	├── data-layer
	│   └── IndexReloadService   (loads and hot-swaps index artifacts)
	└── api-layer
	    └── HTTPServerService    (the REST API)

Each layer restarts its own children. If the reload loop keeps failing
(for instance because the artifact directory is unreadable) it backs off
and retries, and the API goes on serving the last snapshot it loaded.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewIndexReloadService(artifacts, holder, ratingSvc, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)

Supervisor events (service start, failure, backoff) are logged through the
sutureslog adapter, which the logging package bridges to zerolog.

# Failure Handling

Failures decay over FailureDecay seconds. Once the count passes
FailureThreshold the supervisor waits FailureBackoff before the next
restart. A service that returns nil is not restarted.

# Shutdown

Canceling the context passed to Serve stops both layers. Services that do
not return within ShutdownTimeout show up in UnstoppedServiceReport.
*/
package supervisor
