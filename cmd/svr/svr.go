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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/routewalk/demo"
	"github.com/zintix-labs/routewalk/demo/demo_hooks"
	"github.com/zintix-labs/routewalk/hook"
	"github.com/zintix-labs/routewalk/server"
	"github.com/zintix-labs/routewalk/server/logger"
	"github.com/zintix-labs/routewalk/server/svrcfg"
)

// svr 啟動一個以描述檔目錄探索路由的 HTTP server。
//
// 沒有指定 -root 也沒有設定檔時，使用內嵌的 demo 描述檔。
// 命令列參數優先於設定檔。
func main() {
	cfg, ah, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = server.Run(cfg)
	ah.Close()
	if n := ah.Dropped(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d log records dropped\n", n)
	}
	if err != nil {
		os.Exit(1)
	}
}

type config struct {
	ConfigFile string
	Root       string
	Addr       string
	LogMode    string
	Timeout    time.Duration
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, *logger.AsyncHandler, error) {
	cfg := new(config)
	flag.StringVar(&cfg.ConfigFile, "config", "", "yaml config file")
	flag.StringVar(&cfg.Root, "root", "", "controller root directory (default: embedded demo)")
	flag.StringVar(&cfg.Addr, "addr", "", "listen address (default "+svrcfg.DefaultAddr+")")
	flag.StringVar(&cfg.LogMode, "log-mode", "", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.DurationVar(&cfg.Timeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	flag.Parse()

	if cfg.ConfigFile != "" {
		fc, err := svrcfg.LoadFile(cfg.ConfigFile)
		if err != nil {
			return nil, nil, err
		}
		cfg.merge(fc)
	}

	mode, ok := logger.ParseMode(cfg.LogMode)
	if !ok && cfg.LogMode != "" {
		return nil, nil, fmt.Errorf("unknown log mode: %s", cfg.LogMode)
	}
	log, ah := logger.NewAsync(4096, mode)

	if cfg.Root == "" {
		sCfg, err := demo.NewServerConfig()
		if err != nil {
			ah.Close()
			return nil, nil, err
		}
		sCfg.Log = log
		sCfg.Addr = cfg.Addr
		sCfg.ShutdownTimeout = cfg.Timeout
		return sCfg, ah, nil
	}
	return &svrcfg.SvrCfg{
		Addr:            cfg.Addr,
		RootDir:         cfg.Root,
		Hooks:           []*hook.Registry{demo_hooks.Hooks},
		Log:             log,
		ShutdownTimeout: cfg.Timeout,
	}, ah, nil
}

// merge 只補上命令列沒有指定的欄位。
func (cfg *config) merge(fc *svrcfg.FileCfg) {
	if cfg.Root == "" {
		cfg.Root = fc.Root
	}
	if cfg.Addr == "" {
		cfg.Addr = fc.Addr
	}
	if cfg.LogMode == "" {
		cfg.LogMode = fc.LogMode
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = fc.Timeout()
	}
}
