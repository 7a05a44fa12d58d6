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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/routewalk"
	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/router"
	"github.com/zintix-labs/routewalk/server/api"
	"github.com/zintix-labs/routewalk/server/app"
	"github.com/zintix-labs/routewalk/server/httperr"
	"github.com/zintix-labs/routewalk/server/netsvr"
	"github.com/zintix-labs/routewalk/server/svrcfg"
)

// Run 是 server 套件的「組裝器（assembler）」與「啟動入口（runtime entry）」。
//
// 它負責：
//  1. 驗證輸入的 SvrCfg（補預設值、建立描述檔來源）。
//  2. 探索描述檔目錄並註冊所有路由（任何錯誤都拒絕啟動）。
//  3. 建立 HTTP server（netsvr）並掛上 middleware 與路由。
//  4. 啟動 app.Run() 並回傳停止原因。
//
// Run 不綁定任何「環境變數」策略；所有依賴都應透過 SvrCfg 明確注入。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run() 相同，但允許呼叫端注入自訂的 NetSvr
// （例如自己包裝的 adapter、自訂 listener 或 TLS 設定）。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return err
	}

	rt, err := Build(sCfg, svr)
	if err != nil {
		sCfg.Log.Error("route discovery failed", slog.Any("err", err))
		return err
	}

	a := app.NewWith(svr).WithShutdownTimeout(sCfg.ShutdownTimeout).WithLogger(sCfg.Log)
	sCfg.Log.Info("[routewalk] listening", slog.String("addr", sCfg.Addr), slog.Int("routes", rt.Len()))
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}

// Build 探索並註冊路由，再把 router 掛到 svr 上，但不啟動監聽。sCfg 必須已通過 Valid()。
//
// 探索失敗時 svr 不會被改動。
func Build(sCfg *svrcfg.SvrCfg, svr netsvr.NetRouter) (*router.Router, error) {
	eng, err := routewalk.New(sCfg.Source, sCfg.Hooks,
		routewalk.WithLogger(sCfg.Log),
		routewalk.WithErrorHandler(httperr.Handler(sCfg.Log)),
	)
	if err != nil {
		return nil, err
	}
	rt := router.New()
	if _, err := eng.Mount(rt); err != nil {
		return nil, err
	}
	api.RegisterRoutes(svr, rt, sCfg.Log)
	return rt, nil
}
