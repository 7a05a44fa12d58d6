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

package hook_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
)

// record 回傳一個把自己的名字寫進 trace 的 hook。
func record(trace *[]string, name string) hook.Func {
	return func(c *hook.Context) error {
		*trace = append(*trace, name)
		return nil
	}
}

func TestRegistry(t *testing.T) {
	reg := hook.NewRegistry()
	if err := reg.Register("auth", func(*hook.Context) error { return nil }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register("auth", func(*hook.Context) error { return nil }); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := reg.Register(" ", func(*hook.Context) error { return nil }); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := reg.Register("nil", nil); err == nil {
		t.Fatalf("expected nil func error")
	}

	f, err := reg.Lookup("")
	if err != nil || f != nil {
		t.Fatalf("Lookup(\"\") = (%v, %v), want (nil, nil)", f, err)
	}
	if f, err := reg.Lookup(" auth "); err != nil || f == nil {
		t.Fatalf("Lookup(auth) = (%v, %v)", f, err)
	}
	if _, err := reg.Lookup("missing"); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("Lookup(missing) err = %v, want config error", err)
	}
	if !reg.IsExist("auth") || reg.IsExist("missing") {
		t.Fatalf("IsExist mismatch")
	}
}

func TestMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	hook.NewRegistry().
		MustRegister("a", func(*hook.Context) error { return nil }).
		MustRegister("a", func(*hook.Context) error { return nil })
}

func TestMergeRegistry(t *testing.T) {
	noop := func(*hook.Context) error { return nil }
	a := hook.NewRegistry().MustRegister("a", noop).MustRegister("c", noop)
	b := hook.NewRegistry().MustRegister("b", noop)

	m, err := hook.MergeRegistry(a, nil, b)
	if err != nil {
		t.Fatalf("MergeRegistry: %v", err)
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("Names = %v", got)
	}

	dup := hook.NewRegistry().MustRegister("a", noop)
	if _, err := hook.MergeRegistry(a, dup); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestChainOrder(t *testing.T) {
	var trace []string
	ch := hook.Compose(hook.Steps{
		RoutePost:  hook.Step{Name: "Bpost", Fn: record(&trace, "Bpost")},
		Middleware: hook.Step{Name: "M", Fn: record(&trace, "M")},
		ModulePre:  hook.Step{Name: "Apre", Fn: record(&trace, "Apre")},
		ModulePost: hook.Step{Name: "Apost", Fn: record(&trace, "Apost")},
		RoutePre:   hook.Step{Name: "Bpre", Fn: record(&trace, "Bpre")},
	}, nil)

	rec := httptest.NewRecorder()
	ch.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"Apre", "Bpre", "M", "Apost", "Bpost"}
	if !reflect.DeepEqual(trace, want) {
		t.Fatalf("order = %v, want %v", trace, want)
	}
	wantNames := []string{"module.pre:Apre", "route.pre:Bpre", "middleware:M", "module.post:Apost", "route.post:Bpost"}
	if got := ch.Names(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("Names = %v", got)
	}
}

func TestChainSkipsAbsentSteps(t *testing.T) {
	var trace []string
	ch := hook.Compose(hook.Steps{
		ModulePre: hook.Step{Name: "Apre", Fn: record(&trace, "Apre")},
		RoutePre:  hook.Step{Name: "unused"},
		RoutePost: hook.Step{Name: "Bpost", Fn: record(&trace, "Bpost")},
	}, nil)
	if ch.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ch.Len())
	}
	if err := ch.Run(hook.NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(trace, []string{"Apre", "Bpost"}) {
		t.Fatalf("order = %v", trace)
	}

	empty := hook.Compose(hook.Steps{}, nil)
	rec := httptest.NewRecorder()
	empty.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if empty.Len() != 0 || rec.Code != http.StatusOK {
		t.Fatalf("empty chain: len=%d code=%d", empty.Len(), rec.Code)
	}
}

func TestChainErrorStops(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	var got error
	ch := hook.Compose(hook.Steps{
		ModulePre:  hook.Step{Name: "Apre", Fn: record(&trace, "Apre")},
		Middleware: hook.Step{Name: "M", Fn: func(*hook.Context) error { return boom }},
		RoutePost:  hook.Step{Name: "Bpost", Fn: record(&trace, "Bpost")},
	}, func(w http.ResponseWriter, _ *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	ch.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !reflect.DeepEqual(trace, []string{"Apre"}) {
		t.Fatalf("trace = %v, later steps must not run", trace)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("code = %d", rec.Code)
	}
	if !errors.Is(got, boom) || !errs.IsKind(got, errs.KindRuntime) {
		t.Fatalf("err = %v, want runtime error wrapping boom", got)
	}
	if e, _ := errs.AsErr(got); e.Extra != "M" {
		t.Fatalf("extra = %q, want step name", e.Extra)
	}
}

func TestChainDefaultErrorHandler(t *testing.T) {
	ch := hook.Compose(hook.Steps{
		Middleware: hook.Step{Name: "M", Fn: func(*hook.Context) error { return errors.New("x") }},
	}, nil)
	rec := httptest.NewRecorder()
	ch.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
}

func TestChainAbortAndState(t *testing.T) {
	var trace []string
	ch := hook.Compose(hook.Steps{
		ModulePre: hook.Step{Name: "auth", Fn: func(c *hook.Context) error {
			c.Set("user", "u1")
			return nil
		}},
		RoutePre: hook.Step{Name: "gate", Fn: func(c *hook.Context) error {
			if v, ok := c.Get("user"); !ok || v != "u1" {
				t.Errorf("state not shared: %v %v", v, ok)
			}
			c.W.WriteHeader(http.StatusUnauthorized)
			c.Abort()
			return nil
		}},
		Middleware: hook.Step{Name: "M", Fn: record(&trace, "M")},
	}, nil)

	rec := httptest.NewRecorder()
	ch.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(trace) != 0 {
		t.Fatalf("middleware ran after abort: %v", trace)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestChainCancelledContext(t *testing.T) {
	var trace []string
	ch := hook.Compose(hook.Steps{
		Middleware: hook.Step{Name: "M", Fn: record(&trace, "M")},
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	err := ch.Run(hook.NewContext(httptest.NewRecorder(), req))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(trace) != 0 {
		t.Fatalf("step ran on cancelled request")
	}
}
