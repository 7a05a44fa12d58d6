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

// Package routewalk 提供路由探索引擎的「組裝入口（assembler）」。
//
// Engine 把兩個必需的地基組裝在一起：
//  1. Source：描述檔來源（fs.FS 目錄或記憶體註冊表），定義有哪些路由檔。
//  2. hook.Registry：hook 註冊表，提供描述檔以名稱引用的 pre/post processor 與 middleware。
//
// 使用流程分成兩階段：
//   - 探索階段（Discover）：走訪目錄樹、解析每條路由、組合 hook chain。任何錯誤都直接失敗。
//   - 註冊階段（Mount）：探索完全成功後，才依序呼叫 Registrar.Register。
//     探索階段已在暫用 router 上預先註冊過，因此設定錯誤不會讓 router 留下半套路由。
//
//	eng, _ := routewalk.New(src, routewalk.Hooks(userHooks, adminHooks), routewalk.WithLogger(log))
//	rt := router.New()
//	n, err := eng.Mount(rt)
//	// svr.Use(rt.Routes()); svr.Use(rt.AllowedMethods())
package routewalk

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/routewalk/discovery"
	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
	"github.com/zintix-labs/routewalk/router"
	"github.com/zintix-labs/routewalk/source"
)

// Registrar 是探索結果的註冊目標（通常是 *router.Router）。
type Registrar interface {
	Register(path string, methods []string, h http.Handler) error
}

// Hooks 把一或多個 hook 註冊表打包成 New() 需要的參數。
// 重複的 hook 名稱會讓 New() 失敗。
func Hooks(regs ...*hook.Registry) []*hook.Registry {
	return regs
}

// Option 調整 Engine 的可選設定。
type Option func(*Engine)

// WithRoot 設定來源內的根目錄（預設 "."，即來源本身的根）。
func WithRoot(root string) Option {
	return func(e *Engine) { e.root = root }
}

// WithLogger 設定探索與註冊時使用的 logger。
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithErrorHandler 設定請求期間 hook 錯誤的處理方式（裝進每條 chain）。
func WithErrorHandler(h hook.ErrorHandler) Option {
	return func(e *Engine) { e.onError = h }
}

// Engine 持有來源、合併後的 hook 註冊表與探索設定。
type Engine struct {
	src     source.Source
	hooks   *hook.Registry
	root    string
	log     *slog.Logger
	onError hook.ErrorHandler
}

// New 建立 Engine。src 不可為 nil；hooks 可以為空（此時描述檔不得引用任何 hook）。
func New(src source.Source, hooks []*hook.Registry, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, errs.Configf("source required")
	}
	reg, err := hook.MergeRegistry(hooks...)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		src:   src,
		hooks: reg,
		root:  ".",
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Discover 走訪來源並回傳所有 Registration。重複呼叫會重新走訪，結果在來源不變時相同
// （handler 實例不同）。
//
// 回傳前會把全部結果先註冊到一個暫用的 router：跨檔案重複的 method + path、
// chi 拒絕的 pattern 都在這裡成為設定錯誤，Mount 不會碰到真正的 Registrar。
func (e *Engine) Discover() ([]discovery.Registration, error) {
	res := discovery.NewResolver(e.hooks, e.onError)
	w := discovery.NewWalker(e.src, res, e.log)
	regs, err := w.Walk(e.root)
	if err != nil {
		return nil, errs.Wrap(err, "route discovery failed")
	}
	if err := check(regs); err != nil {
		return nil, errs.Wrap(err, "route discovery failed")
	}
	return regs, nil
}

// check 在暫用 router 上預先註冊一次。
func check(regs []discovery.Registration) error {
	scratch := router.New()
	for _, reg := range regs {
		if err := scratch.Register(reg.Path, reg.Methods, reg.Handler); err != nil {
			return errs.WrapWithExtra(err, "conflicting route", reg.File)
		}
	}
	return nil
}

// Mount 先完成探索，再依序把每筆 Registration 註冊到 r。回傳註冊筆數。
//
// 探索失敗（包含重複路由與不合法的 pattern）時不會呼叫 r.Register。
// r 本身拒絕某筆註冊時立即回傳錯誤。
func (e *Engine) Mount(r Registrar) (int, error) {
	if r == nil {
		return 0, errs.Configf("registrar required")
	}
	regs, err := e.Discover()
	if err != nil {
		return 0, err
	}
	for i, reg := range regs {
		if err := r.Register(reg.Path, reg.Methods, reg.Handler); err != nil {
			return i, errs.WrapWithExtra(err, "register route failed", reg.File)
		}
		e.log.Info("route.registered",
			slog.String("path", reg.Path),
			slog.Any("methods", reg.Methods),
			slog.String("file", reg.File),
		)
	}
	return len(regs), nil
}

// HookNames 回傳合併後註冊表中的所有 hook 名稱（排序）。
func (e *Engine) HookNames() []string {
	return e.hooks.Names()
}
