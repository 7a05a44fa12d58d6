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

// Package perf 在探索/註冊流程外包一層 pprof，量測大型描述檔樹的啟動成本。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/routewalk/errs"
)

// DefaultDir 是 profile 預設輸出目錄。
const DefaultDir = "build/profiling"

// Run 依 mode 決定要不要、以及如何包住 exe。mode 為空時直接執行 exe。
//
// 輸出檔為 dir/<mode>.pprof；exe 的錯誤優先於 profile 寫檔錯誤回傳。
func Run(exe func() error, mode, dir string) error {
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case "":
		return exe()
	case "cpu":
		return cpu(exe, dir)
	case "heap", "allocs":
		if err := exe(); err != nil {
			return err
		}
		return snapshot(mode, dir)
	default:
		return errs.Configf("unknown pprof mode %q", mode)
	}
}

func create(dir, mode string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Filesystem(err, "create profiling dir failed", dir)
	}
	p := filepath.Join(dir, mode+".pprof")
	f, err := os.Create(p)
	if err != nil {
		return nil, errs.Filesystem(err, "create profile failed", p)
	}
	return f, nil
}

// cpu 在 exe 執行期間取樣 CPU。
func cpu(exe func() error, dir string) error {
	f, err := create(dir, "cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile failed")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// snapshot 寫出一次 heap（in-use）或 allocs（累積配置）快照。
func snapshot(mode, dir string) error {
	if mode == "heap" {
		// 盡量讓快照貼近最新狀態
		runtime.GC()
	}
	prof := pprof.Lookup(mode)
	if prof == nil {
		return errs.Configf("profile %q not available", mode)
	}
	f, err := create(dir, mode)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Filesystem(err, "write profile failed", f.Name())
	}
	return nil
}
