// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

/*
Package models defines the catalog, user and rating records shared by the
storage backends, the ratings service and the recommenders, together with the
typed error taxonomy every layer returns:

  - ValidationError: an input violates a named constraint (rating range, empty query)
  - NotFoundError: an id-keyed lookup referenced an unknown user, item or rating
  - DataUnavailableError: search or keyword lookup before any index was built

ErrInsufficientSignal is internal to recommendation and always absorbed by the
popularity fallback.
*/
package models
