// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package logging provides the process-wide zerolog logger for Serielens.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("dir", dir).Msg("index loaded")
//
//	// Request-scoped logging picks up the request id placed by the API middleware
//	logging.Ctx(ctx).Debug().Str("query", q).Msg("search")
//
// Components receive a zerolog.Logger in their constructor and derive a child
// logger with a "component" field; only main and the HTTP layer touch the
// global instance directly.
//
// An slog.Handler bridge (NewSlogLogger) exists for libraries that only speak
// log/slog, such as the suture event hook.
package logging
