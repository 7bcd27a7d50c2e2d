// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/keywords"
	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/ratings"
	"github.com/tomtom215/serielens/internal/recommend"
	"github.com/tomtom215/serielens/internal/search"
	"github.com/tomtom215/serielens/internal/store"
	"github.com/tomtom215/serielens/internal/textproc"
)

var testDocs = []models.Document{
	{ItemID: "friends_vo", Title: "Friends", Language: models.LanguageVO, Text: "coffee apartment central perk coffee apartment"},
	{ItemID: "lost_vf", Title: "Lost", Language: models.LanguageVF, Text: "crash avion ile crash avion ile survivants"},
	{ItemID: "lost_vo", Title: "Lost", Language: models.LanguageVO, Text: "plane crash island plane crash island survivors"},
}

type testEnv struct {
	handler http.Handler
	holder  *index.Holder
	ratings *ratings.Service
}

type envOptions struct {
	unloaded  bool
	mw        *ChiMiddlewareConfig
	rebuilder Rebuilder
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := logging.NewTestLogger(io.Discard)

	idx, err := index.NewBuilder(index.DefaultParams(), logger).Build(ctx, testDocs)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	kws, err := keywords.NewExtractor(keywords.DefaultConfig(), logger).Extract(ctx, idx, testDocs)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	holder := index.NewHolder()
	if !opts.unloaded {
		holder.Swap(&index.Snapshot{Index: idx, Keywords: kws})
	}

	svc := ratings.NewService(store.NewMemoryStore(), logger)
	if err := svc.SyncCatalog(ctx, idx.Items()); err != nil {
		t.Fatalf("SyncCatalog() error = %v", err)
	}

	rec, err := recommend.NewEngine(recommend.DefaultConfig(), svc, holder, logger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	se := search.NewEngine(holder, textproc.NewCleaner(nil, nil), search.DefaultConfig(), logger)

	mwCfg := opts.mw
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	h := NewHandler(holder, se, svc, rec, DefaultHandlerConfig())
	if opts.rebuilder != nil {
		h.SetRebuilder(opts.rebuilder)
	}
	return &testEnv{
		handler: NewRouter(h, NewChiMiddleware(mwCfg)).SetupChi(),
		holder:  holder,
		ratings: svc,
	}
}

// envelope mirrors APIResponse with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode envelope: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("status = %d, want %d\n%s", rec.Code, status, rec.Body.String())
	}
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Errorf("envelope = %+v, want error code %s", env, code)
	}
}
