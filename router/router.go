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

// Package router 是探索結果的註冊目標，以 chi 作為實際的路徑比對引擎。
//
// Router 是一個明確的值（非全域單例），在啟動時建立一次、註冊完成後交給宿主應用，
// 宿主以 Use(Routes()) 再 Use(AllowedMethods()) 的順序掛上兩個 middleware：
//   - Routes：method + path 命中已註冊路由時直接處理請求，否則交給下一層。
//   - AllowedMethods：path 命中但 method 不符時回應 OPTIONS(200) / 405 / 501，並帶上 Allow。
package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/routewalk/errs"
)

// methodOrder 同時是合法 method 清單與 Allow 標頭的輸出順序。
var methodOrder = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodTrace,
}

func isKnown(m string) bool {
	for _, k := range methodOrder {
		if k == m {
			return true
		}
	}
	return false
}

// Route 是一筆已註冊的路由（依註冊順序保存）。
type Route struct {
	Path    string
	Methods []string
	Handler http.Handler
}

// Router 以 chi.Mux 保存所有註冊。註冊階段不可與請求處理並行。
type Router struct {
	mux    *chi.Mux
	routes []Route
	// seen 的 key 為 method + " " + path；值為宣告該 method 的路由在 routes 中的位置
	seen map[string]int
	// implicit 記錄由 GET 自動補上的 HEAD（key 同 seen）
	implicit map[string]bool
}

func New() *Router {
	return &Router{
		mux:      chi.NewRouter(),
		seen:     make(map[string]int, 64),
		implicit: make(map[string]bool, 32),
	}
}

// Register 為 path 註冊一組 method。
//
//   - path 必須以 '/' 開頭；method 必須是標準 HTTP method（大小寫不敏感）。
//   - 宣告 GET 時自動補上 HEAD；若該 path 已有 HEAD 則不補。
//   - 明確宣告的 HEAD 會取代先前由 GET 自動補上的 HEAD。
//   - 同一組 method + path 明確宣告兩次視為設定錯誤（不允許後者靜默覆蓋前者）。
//
// 任何錯誤發生時，這一次呼叫不會改動 Router。
func (rt *Router) Register(path string, methods []string, h http.Handler) (err error) {
	if h == nil {
		return errs.Configf("nil handler for %s", path)
	}
	if !strings.HasPrefix(path, "/") {
		return errs.Configf("route path must begin with '/': %q", path)
	}
	if len(methods) == 0 {
		return errs.Configf("no methods for %s", path)
	}
	ms := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !isKnown(m) {
			return errs.Configf("unknown http method %q for %s", m, path)
		}
		if !contains(ms, m) {
			ms = append(ms, m)
		}
	}
	var replaced []string
	for _, m := range ms {
		key := m + " " + path
		if _, ok := rt.seen[key]; !ok {
			continue
		}
		if !rt.implicit[key] {
			return errs.Configf("duplicate route: %s %s", m, path)
		}
		replaced = append(replaced, key)
	}
	headKey := http.MethodHead + " " + path
	_, headTaken := rt.seen[headKey]
	if contains(ms, http.MethodGet) && !contains(ms, http.MethodHead) && !headTaken {
		ms = append(ms, http.MethodHead)
	} else {
		headKey = ""
	}

	// chi 對不合法的 pattern 直接 panic（例如未閉合的 '{'），這裡轉成設定錯誤。
	defer func() {
		if rec := recover(); rec != nil {
			err = errs.Configf("invalid route pattern %q: %v", path, rec)
		}
	}()
	for _, m := range ms {
		rt.mux.Method(m, path, h)
	}

	for _, key := range replaced {
		prev := &rt.routes[rt.seen[key]]
		prev.Methods = without(prev.Methods, strings.SplitN(key, " ", 2)[0])
		delete(rt.implicit, key)
	}
	idx := len(rt.routes)
	for _, m := range ms {
		rt.seen[m+" "+path] = idx
	}
	if headKey != "" {
		rt.implicit[headKey] = true
	}
	rt.routes = append(rt.routes, Route{Path: path, Methods: ms, Handler: h})
	return nil
}

// Registered 回傳依註冊順序排列的路由。
func (rt *Router) Registered() []Route {
	return append([]Route(nil), rt.routes...)
}

// Len 回傳已註冊的路由筆數。
func (rt *Router) Len() int { return len(rt.routes) }

// Routes 回傳負責分派已註冊路由的 middleware。
func (rt *Router) Routes() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(rt.routes) == 0 || !rt.match(r.Method, routePath(r)) {
				next.ServeHTTP(w, r)
				return
			}
			// 使用獨立的 route context，不沿用宿主 mux 的狀態
			rctx := chi.NewRouteContext()
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
			rt.mux.ServeHTTP(w, r)
		})
	}
}

// AllowedMethods 回傳處理 method 不符的 middleware。
//
//   - path 未命中任何路由、或 method 命中：交給下一層。
//   - OPTIONS：200，Allow 列出可用 method。
//   - 非標準 method：501。
//   - 其他：405，Allow 列出可用 method。
func (rt *Router) AllowedMethods() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(rt.routes) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			allowed := rt.Allowed(routePath(r))
			if len(allowed) == 0 || contains(allowed, r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			allow := strings.Join(allowed, ", ")
			switch {
			case r.Method == http.MethodOptions:
				w.Header().Set("Allow", allow)
				w.Header().Set("Content-Length", "0")
				w.WriteHeader(http.StatusOK)
			case !isKnown(r.Method):
				http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
			default:
				w.Header().Set("Allow", allow)
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			}
		})
	}
}

// Allowed 回傳 path 可用的 method（依 methodOrder 排序）。
func (rt *Router) Allowed(path string) []string {
	var out []string
	for _, m := range methodOrder {
		if rt.match(m, path) {
			out = append(out, m)
		}
	}
	return out
}

// ServeHTTP 讓 Router 也能直接作為 http.Handler（例如測試或掛在子路徑下）。
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.Routes()(rt.AllowedMethods()(http.NotFoundHandler())).ServeHTTP(w, r)
}

func (rt *Router) match(method, path string) bool {
	if !isKnown(method) {
		return false
	}
	return rt.mux.Match(chi.NewRouteContext(), method, path)
}

func routePath(r *http.Request) string {
	if r.URL.RawPath != "" {
		return r.URL.RawPath
	}
	return r.URL.Path
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func without(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func (r Route) String() string {
	return fmt.Sprintf("%s %s", strings.Join(r.Methods, ","), r.Path)
}
