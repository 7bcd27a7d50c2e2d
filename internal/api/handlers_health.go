// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	// Status is "healthy" with an index loaded and "degraded" without.
	Status         string     `json:"status"`
	IndexLoaded    bool       `json:"index_loaded"`
	BuildID        string     `json:"build_id,omitempty"`
	BuiltAt        *time.Time `json:"built_at,omitempty"`
	Items          int        `json:"items"`
	VocabularySize int        `json:"vocabulary_size"`
	Uptime         float64    `json:"uptime_seconds"`
}

// Health reports whether an index is loaded and describes it. It always
// answers 200 so that monitoring can read the details of a degraded node.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status: "degraded",
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if snap := h.holder.Current(); snap != nil {
		builtAt := snap.Index.BuiltAt()
		status.Status = "healthy"
		status.IndexLoaded = true
		status.BuildID = snap.Index.BuildID()
		status.BuiltAt = &builtAt
		status.Items = snap.Index.Len()
		status.VocabularySize = snap.Index.VocabularySize()
	}
	WriteSuccess(w, r, status)
}

// HealthLive returns 200 while the process is alive.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 503 until an index snapshot is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.holder.Current() == nil {
		NewResponseWriter(w, r).ServiceUnavailable("no index loaded")
		return
	}
	WriteSuccess(w, r, map[string]bool{"ready": true})
}
