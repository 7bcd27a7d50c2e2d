// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import "net/http"

// RebuildIndex handles POST /api/v1/index/rebuild. The build runs in the
// background and answers 202; GET /health shows the new build_id once it
// is active. A build already running answers 409.
func (h *Handler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.rebuilder.StartRebuild(); err != nil {
		WriteError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Accepted(map[string]string{"status": "started"})
}
