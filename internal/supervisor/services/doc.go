// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

/*
Package services adapts server components to suture's Serve(ctx) model.

HTTPServerService wraps an *http.Server: ListenAndServe runs in a goroutine
and context cancellation triggers Shutdown with a bounded timeout.

IndexReloadService loads the artifacts of the last completed build at
start, then polls the manifest and swaps in newer builds. Every swap is
followed by a catalog sync so ratings validate against the items of the
active index.

Both services implement fmt.Stringer so suture names them in its events.
*/
package services
