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

// Package demo 組裝一份可直接啟動的示範設定。
package demo

import (
	"github.com/zintix-labs/routewalk"
	"github.com/zintix-labs/routewalk/demo/demo_controller"
	"github.com/zintix-labs/routewalk/demo/demo_hooks"
	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
	"github.com/zintix-labs/routewalk/server/logger"
	"github.com/zintix-labs/routewalk/server/svrcfg"
	"github.com/zintix-labs/routewalk/source"
)

// Source 回傳內嵌描述檔的來源。
func Source() (*source.DirSource, error) {
	return source.NewDir(demo_controller.FS)
}

// New 以內嵌描述檔與示範 hook 建立 Engine。
func New(opts ...routewalk.Option) (*routewalk.Engine, error) {
	src, err := Source()
	if err != nil {
		return nil, err
	}
	return routewalk.New(src, routewalk.Hooks(demo_hooks.Hooks), opts...)
}

func NewServerConfig() (*svrcfg.SvrCfg, error) {
	src, err := Source()
	if err != nil {
		return nil, errs.NewFatal("new demo source failed:" + err.Error())
	}
	log, _ := logger.NewAsync(8192, logger.ModeDev)
	scfg := &svrcfg.SvrCfg{
		Log:    log,
		Source: src,
		Hooks:  []*hook.Registry{demo_hooks.Hooks},
	}
	return scfg, nil
}
