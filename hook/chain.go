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

package hook

import (
	"net/http"

	"github.com/zintix-labs/routewalk/errs"
)

// Stage 標示一個步驟在 chain 中的位置。
type Stage uint8

const (
	ModulePre Stage = iota
	RoutePre
	Middleware
	ModulePost
	RoutePost
)

var stageNames = [...]string{
	ModulePre:  "module.pre",
	RoutePre:   "route.pre",
	Middleware: "middleware",
	ModulePost: "module.post",
	RoutePost:  "route.post",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Step 是 chain 中的一個已解析步驟。
type Step struct {
	Stage Stage
	Name  string
	Fn    Func
}

// ErrorHandler 接手 chain 中途失敗的錯誤（RuntimeHandlerError），由宿主應用決定如何回應。
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Chain 是一條路由的組合 handler：依固定順序執行
//
//	module.pre → route.pre → middleware → module.post → route.post
//
// 不存在的步驟直接略過，不改變其他步驟的相對順序。
// 每一步完整結束後才會開始下一步；任一步回傳錯誤或呼叫 Abort 即停止。
//
// Chain 建立後不可變，可被多個請求（以及 fan-out 的多條 path）同時共用。
type Chain struct {
	steps   []Step
	onError ErrorHandler
}

// Steps 依 chain 固定順序傳入，nil 的 Fn 會被略過。
type Steps struct {
	ModulePre  Step
	RoutePre   Step
	Middleware Step
	ModulePost Step
	RoutePost  Step
}

// Compose 依固定順序組合步驟。onError 為 nil 時使用 DefaultErrorHandler。
func Compose(s Steps, onError ErrorHandler) *Chain {
	ordered := [...]struct {
		stage Stage
		step  Step
	}{
		{ModulePre, s.ModulePre},
		{RoutePre, s.RoutePre},
		{Middleware, s.Middleware},
		{ModulePost, s.ModulePost},
		{RoutePost, s.RoutePost},
	}
	steps := make([]Step, 0, len(ordered))
	for _, o := range ordered {
		if o.step.Fn == nil {
			continue
		}
		o.step.Stage = o.stage
		steps = append(steps, o.step)
	}
	if onError == nil {
		onError = DefaultErrorHandler
	}
	return &Chain{steps: steps, onError: onError}
}

// Run 依序執行所有步驟。
//
// 請求的 context 被取消時，不再開始下一個步驟，並回傳 context 的錯誤。
func (ch *Chain) Run(c *Context) error {
	for _, st := range ch.steps {
		if err := c.Ctx().Err(); err != nil {
			return errs.Runtime(err, "request cancelled before "+st.Stage.String())
		}
		if err := st.Fn(c); err != nil {
			e := errs.Runtime(err, "hook failed: "+st.Stage.String())
			e.Extra = st.Name
			return e
		}
		if c.Aborted() {
			return nil
		}
	}
	return nil
}

// ServeHTTP 實作 http.Handler：每個請求建立自己的 Context 並執行 chain。
func (ch *Chain) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := NewContext(w, r)
	if err := ch.Run(c); err != nil {
		ch.onError(w, r, err)
	}
}

// Names 回傳 chain 的結構描述（stage:name），用於比較兩次探索的結果與輸出路由表。
func (ch *Chain) Names() []string {
	out := make([]string, 0, len(ch.steps))
	for _, st := range ch.steps {
		out = append(out, st.Stage.String()+":"+st.Name)
	}
	return out
}

// Len 回傳實際存在的步驟數。
func (ch *Chain) Len() int { return len(ch.steps) }

// DefaultErrorHandler 只回應 500，不做任何記錄；宿主應用通常會以 httperr 取代它。
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
