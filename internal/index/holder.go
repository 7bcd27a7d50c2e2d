// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package index

import (
	"sync"
	"sync/atomic"

	"github.com/tomtom215/serielens/internal/models"
)

// Holder publishes the active Snapshot. Readers call Current and keep the
// returned pointer for the whole request; Swap replaces it atomically.
type Holder struct {
	current atomic.Pointer[Snapshot]
	buildMu sync.Mutex
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the active snapshot, or nil when none is loaded.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Require returns the active snapshot or a *models.DataUnavailableError.
func (h *Holder) Require(resource string) (*Snapshot, error) {
	snap := h.current.Load()
	if snap == nil {
		return nil, &models.DataUnavailableError{Resource: resource}
	}
	return snap, nil
}

// Swap installs snap and returns the previous snapshot.
func (h *Holder) Swap(snap *Snapshot) *Snapshot {
	return h.current.Swap(snap)
}

// BeginBuild reserves the holder for one in-process build. Overlapping
// builds get models.ErrBuildInProgress. The returned func ends the build.
func (h *Holder) BeginBuild() (end func(), err error) {
	if !h.buildMu.TryLock() {
		return nil, models.ErrBuildInProgress
	}
	return h.buildMu.Unlock, nil
}

// KeywordCount returns the keyword count of itemID in the active snapshot,
// or 0 when nothing is loaded.
func (h *Holder) KeywordCount(itemID string) int {
	snap := h.current.Load()
	if snap == nil {
		return 0
	}
	return snap.KeywordCount(itemID)
}
