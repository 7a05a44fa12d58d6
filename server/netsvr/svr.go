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
package netsvr

import (
	"net/http"

	"github.com/zintix-labs/routewalk/server/app"
)

// NetSvr 封裝「路由行為 + 服務啟停」的抽象介面。
//   - 只暴露給最外層組裝器使用，其他層只需面向 NetRouter。
//   - 目的：依賴反轉。若改用不同 http 框架，只要實作此介面即可。
//   - NetSvr 本身實作了 app.Component，因此可以直接交給 app.App 作為生命周期管理的一部分。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 定義宿主應用的純路由行為。
//
// 探索出的路由不直接註冊在宿主上，而是透過 Use 掛上 router.Routes() / router.AllowedMethods()；
// 宿主本身只需要一個 Fallback 收尾（未命中任何路由時的回應）。
type NetRouter interface {
	// middleware，必須在 Handle / Fallback 之前呼叫
	Use(middleware func(http.Handler) http.Handler)

	// 宿主自己的路由（例如健康檢查）
	Handle(pattern string, h http.Handler)

	// 所有未命中的請求
	Fallback(h http.Handler)
}
