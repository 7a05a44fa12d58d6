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

package router_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
	"github.com/zintix-labs/routewalk/router"
)

func text(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRegisterAndServe(t *testing.T) {
	rt := router.New()
	if err := rt.Register("/user/list", []string{"get", "POST"}, text("list")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := rt.Register("/user/{id}", []string{"DELETE"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("del " + chi.URLParam(r, "id")))
	})); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if rec := do(rt, http.MethodGet, "/user/list"); rec.Code != 200 || rec.Body.String() != "list" {
		t.Fatalf("GET = %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(rt, http.MethodPost, "/user/list"); rec.Code != 200 {
		t.Fatalf("POST = %d", rec.Code)
	}
	if rec := do(rt, http.MethodHead, "/user/list"); rec.Code != 200 {
		t.Fatalf("HEAD = %d, GET must imply HEAD", rec.Code)
	}
	if rec := do(rt, http.MethodDelete, "/user/42"); rec.Body.String() != "del 42" {
		t.Fatalf("DELETE = %q", rec.Body.String())
	}
	if rec := do(rt, http.MethodGet, "/nothing"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path = %d", rec.Code)
	}

	got := rt.Registered()
	if len(got) != 2 || rt.Len() != 2 {
		t.Fatalf("Registered = %v", got)
	}
	if !reflect.DeepEqual(got[0].Methods, []string{"GET", "POST", "HEAD"}) {
		t.Fatalf("methods = %v", got[0].Methods)
	}
	if got[0].String() != "GET,POST,HEAD /user/list" {
		t.Fatalf("String = %q", got[0].String())
	}
}

func TestAllowedMethods(t *testing.T) {
	rt := router.New()
	_ = rt.Register("/user/list", []string{"GET", "POST"}, text("list"))

	rec := do(rt, http.MethodOptions, "/user/list")
	if rec.Code != http.StatusOK || rec.Header().Get("Allow") != "GET, HEAD, POST" {
		t.Fatalf("OPTIONS = %d allow=%q", rec.Code, rec.Header().Get("Allow"))
	}
	rec = do(rt, http.MethodDelete, "/user/list")
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != "GET, HEAD, POST" {
		t.Fatalf("DELETE = %d allow=%q", rec.Code, rec.Header().Get("Allow"))
	}
	rec = do(rt, "PURGE", "/user/list")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("PURGE = %d, want 501", rec.Code)
	}
	if got := rt.Allowed("/user/list"); !reflect.DeepEqual(got, []string{"GET", "HEAD", "POST"}) {
		t.Fatalf("Allowed = %v", got)
	}
	if got := rt.Allowed("/none"); got != nil {
		t.Fatalf("Allowed(/none) = %v", got)
	}
}

func TestRegisterErrors(t *testing.T) {
	rt := router.New()
	_ = rt.Register("/a", []string{"GET"}, text("a"))

	cases := []struct {
		name    string
		path    string
		methods []string
		h       http.Handler
	}{
		{"duplicate", "/a", []string{"GET"}, text("b")},
		{"duplicate in one call", "/a", []string{"POST", "GET"}, text("b")},
		{"no slash", "a", []string{"GET"}, text("a")},
		{"nil handler", "/b", []string{"GET"}, nil},
		{"no methods", "/b", nil, text("b")},
		{"unknown method", "/b", []string{"FETCH"}, text("b")},
		{"bad pattern", "/b/{id", []string{"GET"}, text("b")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := rt.Register(tc.path, tc.methods, tc.h)
			if !errs.IsKind(err, errs.KindConfig) {
				t.Fatalf("err = %v, want config error", err)
			}
		})
	}
	if rt.Len() != 1 {
		t.Fatalf("failed registrations mutated router: len=%d", rt.Len())
	}
	if rec := do(rt, http.MethodGet, "/a"); rec.Body.String() != "a" {
		t.Fatalf("first registration overridden: %q", rec.Body.String())
	}
}

func TestImplicitHead(t *testing.T) {
	t.Run("explicit head after get", func(t *testing.T) {
		rt := router.New()
		if err := rt.Register("/x", []string{"GET"}, text("get")); err != nil {
			t.Fatalf("Register GET: %v", err)
		}
		if err := rt.Register("/x", []string{"HEAD"}, text("head")); err != nil {
			t.Fatalf("explicit HEAD must replace the implied one: %v", err)
		}
		if rec := do(rt, http.MethodHead, "/x"); rec.Body.String() != "head" {
			t.Fatalf("HEAD served by %q", rec.Body.String())
		}
		if rec := do(rt, http.MethodGet, "/x"); rec.Body.String() != "get" {
			t.Fatalf("GET = %q", rec.Body.String())
		}
		got := rt.Registered()
		if !reflect.DeepEqual(got[0].Methods, []string{"GET"}) || !reflect.DeepEqual(got[1].Methods, []string{"HEAD"}) {
			t.Fatalf("methods = %v / %v", got[0].Methods, got[1].Methods)
		}
		if err := rt.Register("/x", []string{"HEAD"}, text("again")); !errs.IsKind(err, errs.KindConfig) {
			t.Fatalf("second explicit HEAD = %v, want config error", err)
		}
	})
	t.Run("explicit head before get", func(t *testing.T) {
		rt := router.New()
		if err := rt.Register("/x", []string{"HEAD"}, text("head")); err != nil {
			t.Fatalf("Register HEAD: %v", err)
		}
		if err := rt.Register("/x", []string{"GET"}, text("get")); err != nil {
			t.Fatalf("GET must not imply HEAD over an explicit one: %v", err)
		}
		if rec := do(rt, http.MethodHead, "/x"); rec.Body.String() != "head" {
			t.Fatalf("HEAD served by %q", rec.Body.String())
		}
		got := rt.Registered()
		if !reflect.DeepEqual(got[0].Methods, []string{"HEAD"}) || !reflect.DeepEqual(got[1].Methods, []string{"GET"}) {
			t.Fatalf("methods = %v / %v", got[0].Methods, got[1].Methods)
		}
	})
}

func TestMiddlewareFallThrough(t *testing.T) {
	rt := router.New()
	_ = rt.Register("/api/x", []string{"GET"}, text("x"))

	host := chi.NewRouter()
	host.Use(rt.Routes())
	host.Use(rt.AllowedMethods())
	host.Handle("/*", text("host"))

	if rec := do(host, http.MethodGet, "/api/x"); rec.Body.String() != "x" {
		t.Fatalf("registered route = %q", rec.Body.String())
	}
	if rec := do(host, http.MethodGet, "/other"); rec.Body.String() != "host" {
		t.Fatalf("unmatched must fall through, got %q", rec.Body.String())
	}
	if rec := do(host, http.MethodPut, "/api/x"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT = %d", rec.Code)
	}

	empty := router.New()
	if rec := do(empty, http.MethodGet, "/"); rec.Code != http.StatusNotFound {
		t.Fatalf("empty router = %d", rec.Code)
	}
}

func TestTable(t *testing.T) {
	rt := router.New()
	ch := hook.Compose(hook.Steps{
		ModulePre:  hook.Step{Name: "auth", Fn: func(*hook.Context) error { return nil }},
		Middleware: hook.Step{Name: "user.list", Fn: func(*hook.Context) error { return nil }},
	}, nil)
	_ = rt.Register("/user/list", []string{"GET"}, ch)
	_ = rt.Register("/使用者", []string{"POST"}, text("x"))

	var buf bytes.Buffer
	if err := rt.Table(&buf); err != nil {
		t.Fatalf("Table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"METHODS", "PATH", "CHAIN",
		"GET,HEAD", "/user/list", "module.pre:auth > middleware:user.list",
		"/使用者",
		"2 routes, 3 method handlers",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	// 全形字元以寬度 2 計算：每一列的顯示寬度一致
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 6 {
		t.Fatalf("table too short:\n%s", out)
	}
	if router.FormatTable(nil) == "" {
		t.Fatalf("empty table must still render header")
	}
}
