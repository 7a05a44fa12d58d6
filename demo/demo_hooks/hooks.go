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

// Package demo_hooks 提供 demo_controller 描述檔引用的 hook。
package demo_hooks

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
	"github.com/zintix-labs/routewalk/server/netsvr/middleware"
)

// DemoToken 是示範用的 Bearer token。
const DemoToken = "demo-token"

// Hooks 是示範用的 hook 註冊表。
var Hooks = hook.NewRegistry().
	MustRegister("demo.health", health).
	MustRegister("demo.reqlog", reqlog).
	MustRegister("demo.auth", auth).
	MustRegister("demo.profile", profile).
	MustRegister("demo.avatar", avatar).
	MustRegister("demo.list", list).
	MustRegister("demo.remove", remove).
	MustRegister("demo.stamp", stamp)

var users = []string{"alice", "bob", "carol"}

func writeJSON(c *hook.Context, status int, v any) error {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(status)
	return json.NewEncoder(c.W).Encode(v)
}

func health(c *hook.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

// reqlog 把 request id 放進請求狀態，後續 hook 可取用。
func reqlog(c *hook.Context) error {
	c.Set("req_id", middleware.GetReqId(c.R))
	return nil
}

func auth(c *hook.Context) error {
	token, ok := strings.CutPrefix(c.R.Header.Get("Authorization"), "Bearer ")
	if !ok || token != DemoToken {
		http.Error(c.W, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		c.Abort()
		return nil
	}
	c.Set("user", "admin")
	return nil
}

func profile(c *hook.Context) error {
	id, _ := c.Get("req_id")
	return writeJSON(c, http.StatusOK, map[string]any{"name": users[0], "req_id": id})
}

func avatar(c *hook.Context) error {
	if c.R.Method == http.MethodPut {
		c.W.WriteHeader(http.StatusNoContent)
		return nil
	}
	return writeJSON(c, http.StatusOK, map[string]string{"avatar": "/static/" + users[0] + ".png"})
}

func list(c *hook.Context) error {
	if c.R.Method == http.MethodPost {
		return errs.NewWarn("users are read-only in demo")
	}
	c.W.Header().Set("X-Total-Count", "3")
	return writeJSON(c, http.StatusOK, users)
}

func remove(c *hook.Context) error {
	id := chi.URLParam(c.R, "id")
	for _, u := range users {
		if u == id {
			c.W.WriteHeader(http.StatusNoContent)
			return nil
		}
	}
	http.Error(c.W, "user not found: "+id, http.StatusNotFound)
	c.Abort()
	return nil
}

// stamp 是後置 hook：回應已寫出，只能記錄完成時間。
func stamp(c *hook.Context) error {
	c.Set("done_at", time.Now())
	return nil
}
