// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
	"github.com/zintix-labs/routewalk/server"
	"github.com/zintix-labs/routewalk/server/netsvr"
	"github.com/zintix-labs/routewalk/server/svrcfg"
	"github.com/zintix-labs/routewalk/source"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCfg(t *testing.T, fsys fstest.MapFS, regs ...*hook.Registry) *svrcfg.SvrCfg {
	t.Helper()
	src, err := source.NewDir(fsys)
	if err != nil {
		t.Fatal(err)
	}
	sc := &svrcfg.SvrCfg{Source: src, Hooks: regs, Log: quiet()}
	if err := sc.Valid(); err != nil {
		t.Fatalf("Valid: %v", err)
	}
	return sc
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestBuildServesDiscoveredRoutes(t *testing.T) {
	reg := hook.NewRegistry().
		MustRegister("list", func(c *hook.Context) error {
			_, err := c.W.Write([]byte("list"))
			return err
		}).
		MustRegister("bad", func(*hook.Context) error { return errs.NewWarn("bad input") }).
		MustRegister("boom", func(*hook.Context) error { return errs.NewFatal("db down") }).
		MustRegister("panic", func(*hook.Context) error { panic("oops") })
	sc := testCfg(t, fstest.MapFS{
		"user/list.yaml": {Data: []byte("routers:\n  - middleware: list\n    method: [GET, POST]\n")},
		"user/bad.yaml":  {Data: []byte("routers:\n  - middleware: bad\n")},
		"user/boom.yaml": {Data: []byte("routers:\n  - middleware: boom\n")},
		"panic.yaml":     {Data: []byte("routers:\n  - middleware: panic\n")},
	}, reg)

	svr := netsvr.NewChiServer("127.0.0.1:0")
	rt, err := server.Build(sc, svr)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rt.Len() != 4 {
		t.Fatalf("routes = %d", rt.Len())
	}

	rec := do(svr, http.MethodGet, "/user/list")
	if rec.Code != http.StatusOK || rec.Body.String() != "list" {
		t.Fatalf("GET /user/list = %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(svr, http.MethodPut, "/user/list"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT = %d, want 405", rec.Code)
	}
	if rec := do(svr, http.MethodOptions, "/user/list"); rec.Code != http.StatusOK || rec.Header().Get("Allow") == "" {
		t.Fatalf("OPTIONS = %d allow=%q", rec.Code, rec.Header().Get("Allow"))
	}
	if rec := do(svr, http.MethodGet, "/user/bad"); rec.Code != http.StatusBadRequest {
		t.Fatalf("warn hook = %d, want 400", rec.Code)
	}
	rec = do(svr, http.MethodGet, "/user/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("fatal hook = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); body != http.StatusText(http.StatusInternalServerError)+"\n" {
		t.Fatalf("5xx body leaks details: %q", body)
	}
	if rec := do(svr, http.MethodGet, "/panic"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("panic = %d, want 500", rec.Code)
	}
	if rec := do(svr, http.MethodGet, "/missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing = %d, want 404", rec.Code)
	}
}

func TestBuildRejectsBadTree(t *testing.T) {
	sc := testCfg(t, fstest.MapFS{
		"a.yaml": {Data: []byte("routers:\n  - middleware: nope\n")},
	})
	svr := netsvr.NewChiServer("127.0.0.1:0")
	if _, err := server.Build(sc, svr); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("Build err = %v, want config error", err)
	}
}

func TestRunWithSvrFailsBeforeListening(t *testing.T) {
	src, _ := source.NewDir(fstest.MapFS{"a.yaml": {Data: []byte("BASE_PATH: /x\n")}})
	sc := &svrcfg.SvrCfg{Source: src, Log: quiet()}
	if err := server.RunWithSvr(sc, netsvr.NewChiServer("127.0.0.1:0")); err == nil {
		t.Fatalf("expected discovery error")
	}
	if err := server.RunWithSvr(&svrcfg.SvrCfg{Source: src, Log: quiet()}, nil); err == nil {
		t.Fatalf("expected nil svr error")
	}
}
