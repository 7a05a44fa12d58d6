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

// Package hook 提供路由的 hook 註冊表與順序執行的 hook chain。
//
// 描述檔只以名稱引用 hook；啟動時由 Registry 解析成 Func，再由 Compose 組成 Chain。
package hook

import (
	"context"
	"net/http"
)

// Context 是單一請求在整條 hook chain 中共用的呼叫上下文。
//
// 同一個請求的每一步（pre / middleware / post）拿到的都是同一個 *Context，
// 因此可以透過 Set/Get 傳遞請求內狀態。Context 只屬於一個請求，不可跨 goroutine 共享。
type Context struct {
	W http.ResponseWriter
	R *http.Request

	state   map[string]any
	aborted bool
}

// NewContext 建立一個請求上下文。
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{W: w, R: r}
}

// Ctx 回傳請求的 context.Context。
func (c *Context) Ctx() context.Context {
	if c.R == nil {
		return context.Background()
	}
	return c.R.Context()
}

// Set 寫入請求內狀態。
func (c *Context) Set(key string, v any) {
	if c.state == nil {
		c.state = make(map[string]any, 4)
	}
	c.state[key] = v
}

// Get 讀取請求內狀態。
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.state[key]
	return v, ok
}

// Abort 要求 chain 在目前這一步結束後停止，不再執行後續步驟。
// 典型用法：前置 hook 已經自行寫出回應（例如 401）。
func (c *Context) Abort() { c.aborted = true }

// Aborted 回報 chain 是否已被中止。
func (c *Context) Aborted() bool { return c.aborted }
