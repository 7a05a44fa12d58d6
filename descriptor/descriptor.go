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

// Package descriptor 定義路由描述檔（route descriptor module）的資料合約。
//
// 一個描述檔對應檔案樹中的一個檔案，宣告一組路由（routers）、可選的 BASE_PATH，
// 以及模組層級的前置/後置 hook。hook 與 middleware 一律以「名稱」引用，
// 實際函式由 hook.Registry 在探索階段解析，描述檔本身不攜帶任何可執行程式碼。
//
// 範例（YAML）：
//
//	BASE_PATH: /user
//	preProcessor: auth
//	routers:
//	  - path: /list
//	    method: [GET, POST]
//	    middleware: user.list
//	  - path: [/a, /b]
//	    middleware: user.alias
package descriptor

import (
	"net/http"
	"strings"

	"github.com/zintix-labs/routewalk/errs"
)

// Module 是單一描述檔載入後的結果。
type Module struct {
	Routers       []Entry `yaml:"routers" json:"routers"`
	BasePath      string  `yaml:"BASE_PATH,omitempty" json:"BASE_PATH,omitempty"`
	PreProcessor  string  `yaml:"preProcessor,omitempty" json:"preProcessor,omitempty"`
	PostProcessor string  `yaml:"postProcessor,omitempty" json:"postProcessor,omitempty"`
}

// Entry 是描述檔內宣告的一條路由。
type Entry struct {
	Path          PathSpec   `yaml:"path,omitempty" json:"path,omitempty"`
	Method        MethodSpec `yaml:"method,omitempty" json:"method,omitempty"`
	Middleware    string     `yaml:"middleware,omitempty" json:"middleware,omitempty"`
	PreProcessor  string     `yaml:"preProcessor,omitempty" json:"preProcessor,omitempty"`
	PostProcessor string     `yaml:"postProcessor,omitempty" json:"postProcessor,omitempty"`
}

// PathKind 標示 path 欄位實際的形狀。
type PathKind uint8

const (
	PathNone   PathKind = iota // 未宣告或 null
	PathString                 // 單一字串
	PathList                   // 字串陣列
	PathOther                  // 其他形狀（數字、物件、混合陣列...），探索時退回檔名推導
)

// PathSpec 保存 path 欄位的原始形狀，推導規則由 discovery 決定。
type PathSpec struct {
	Kind  PathKind
	Value string
	List  []string
}

// Str 建立單一字串 path。
func Str(p string) PathSpec { return PathSpec{Kind: PathString, Value: p} }

// List 建立陣列 path（保留順序）。
func List(ps ...string) PathSpec {
	return PathSpec{Kind: PathList, List: append([]string{}, ps...)}
}

// MethodSpec 為一組 HTTP method，單一值在解碼時視為只有一個元素的集合。
type MethodSpec []string

// DefaultMethods 為未宣告 method 時使用的集合。
var DefaultMethods = MethodSpec{http.MethodGet}

var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// IsKnownMethod 判斷是否為標準 HTTP method（大小寫不敏感）。
func IsKnownMethod(m string) bool {
	_, ok := knownMethods[strings.ToUpper(strings.TrimSpace(m))]
	return ok
}

// Methods 回傳正規化（大寫、去重、保序）後的 method 集合；未宣告時回傳 DefaultMethods 的副本。
// 明確的空陣列由 Validate 拒絕。
func (m MethodSpec) Methods() []string {
	if len(m) == 0 {
		return append([]string{}, DefaultMethods...)
	}
	out := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	for _, v := range m {
		v = strings.ToUpper(strings.TrimSpace(v))
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Validate 檢查模組的結構合法性。
//
// routers 必須存在（可以是空陣列）；method 必須是標準 HTTP method。
// 明確寫出的空 method 陣列視為錯誤（未宣告 method 才會預設為 GET）。
// path 形狀不合法時不視為錯誤，交由探索階段退回檔名推導。
func (m *Module) Validate() error {
	if m == nil {
		return errs.Configf("nil descriptor module")
	}
	if m.Routers == nil {
		return errs.Configf("descriptor has no routers")
	}
	for i, e := range m.Routers {
		if e.Method != nil && len(e.Method) == 0 {
			return errs.Configf("routers[%d]: empty method list", i)
		}
		for _, method := range e.Method {
			if !IsKnownMethod(method) {
				return errs.Configf("routers[%d]: unknown http method %q", i, method)
			}
		}
	}
	return nil
}
