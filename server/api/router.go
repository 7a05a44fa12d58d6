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

package api

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/routewalk/router"
	"github.com/zintix-labs/routewalk/server/netsvr"
	"github.com/zintix-labs/routewalk/server/netsvr/middleware"
)

// RegisterRoutes 把探索完成的 router 掛到宿主上。
//
// 順序固定：
//  1. 環境 middleware（request id → access log → recover → 壓縮）
//  2. rt.Routes()：命中已註冊路由即處理
//  3. rt.AllowedMethods()：path 命中但 method 不符
//  4. Fallback：其餘一律 404
func RegisterRoutes(svr netsvr.NetRouter, rt *router.Router, log *slog.Logger) {
	registerMiddleware(svr, log)
	svr.Use(rt.Routes())
	svr.Use(rt.AllowedMethods())
	svr.Fallback(http.HandlerFunc(notFound))
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
