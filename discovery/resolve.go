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

package discovery

import (
	"regexp"
	"strings"

	"github.com/zintix-labs/routewalk/descriptor"
	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
)

// Registration 是探索的最終輸出：交給 router 註冊的 (path, methods, handler)。
//
// 同一條 Entry 因 path 陣列展開出的多個 Registration 共用同一個 Methods 與 Handler。
// 探索完成後視為唯讀。
type Registration struct {
	Path    string
	Methods []string
	Handler *hook.Chain
	File    string
}

var multiSlash = regexp.MustCompile(`/{2,}`)

// normalize 把兩個以上連續的 '/' 收斂成一個。
func normalize(p string) string {
	return multiSlash.ReplaceAllString(p, "/")
}

// stripExt 去掉檔名中第一個 '.' 之後的所有內容（"profile.js" → "profile"，"a.b.yaml" → "a"）。
func stripExt(fileName string) string {
	if i := strings.IndexByte(fileName, '.'); i >= 0 {
		return fileName[:i]
	}
	return fileName
}

// Resolver 把單一 Entry 展開成 Registration。
type Resolver struct {
	hooks   *hook.Registry
	onError hook.ErrorHandler
}

// NewResolver 建立 Resolver。hooks 為 nil 時視為空註冊表（任何 hook 名稱都會被拒絕）；
// onError 會被裝進每條 chain，處理請求期間的 hook 錯誤。
func NewResolver(hooks *hook.Registry, onError hook.ErrorHandler) *Resolver {
	if hooks == nil {
		hooks = hook.NewRegistry()
	}
	return &Resolver{hooks: hooks, onError: onError}
}

// Paths 依優先序推導一條 Entry 的 URL path：
//  1. path 為非空字串：basePath + "/" + path
//  2. path 為字串陣列：每個元素依規則 1 推導，保持順序
//  3. 其他（未宣告、空字串、非法形狀）：basePath + "/" + 去副檔名的檔名
//
// 三種規則的結果都會收斂連續的 '/'。
func Paths(e descriptor.Entry, fileName, basePath string) []string {
	switch {
	case e.Path.Kind == descriptor.PathString && e.Path.Value != "":
		return []string{normalize(basePath + "/" + e.Path.Value)}
	case e.Path.Kind == descriptor.PathList:
		out := make([]string, 0, len(e.Path.List))
		for _, p := range e.Path.List {
			out = append(out, normalize(basePath+"/"+p))
		}
		return out
	default:
		return []string{normalize(basePath + "/" + stripExt(fileName))}
	}
}

// Resolve 展開 Entry：推導 path、決定 method、組合 hook chain。
//
// 推導出的 path 不以 '/' 開頭（BASE_PATH 沒有前導 '/'）或 method 為空陣列時回傳設定錯誤。
//
// chain 每條 Entry 只建一次，所有 fan-out 的 path 共用。
func (r *Resolver) Resolve(e descriptor.Entry, fileName, basePath string, m *descriptor.Module) ([]Registration, error) {
	if m == nil {
		return nil, errs.Configf("nil descriptor module")
	}
	chain, err := r.compose(e, m)
	if err != nil {
		return nil, err
	}
	if e.Method != nil && len(e.Method) == 0 {
		return nil, errs.Configf("empty method list")
	}
	methods := e.Method.Methods()
	for _, method := range methods {
		if !descriptor.IsKnownMethod(method) {
			return nil, errs.Configf("unknown http method %q", method)
		}
	}

	paths := Paths(e, fileName, basePath)
	out := make([]Registration, 0, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return nil, errs.Configf("route path must begin with '/': %q", p)
		}
		out = append(out, Registration{
			Path:    p,
			Methods: methods,
			Handler: chain,
		})
	}
	return out, nil
}

func (r *Resolver) compose(e descriptor.Entry, m *descriptor.Module) (*hook.Chain, error) {
	var (
		s   hook.Steps
		err error
	)
	lookups := []struct {
		name string
		dst  *hook.Step
	}{
		{m.PreProcessor, &s.ModulePre},
		{e.PreProcessor, &s.RoutePre},
		{e.Middleware, &s.Middleware},
		{m.PostProcessor, &s.ModulePost},
		{e.PostProcessor, &s.RoutePost},
	}
	for _, l := range lookups {
		l.dst.Name = strings.TrimSpace(l.name)
		if l.dst.Fn, err = r.hooks.Lookup(l.name); err != nil {
			return nil, err
		}
	}
	return hook.Compose(s, r.onError), nil
}
