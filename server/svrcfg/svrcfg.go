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

package svrcfg

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/hook"
	"github.com/zintix-labs/routewalk/server/logger"
	"github.com/zintix-labs/routewalk/source"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr            = ":5808"
	DefaultRootDir         = "controller"
	DefaultShutdownTimeout = 5 * time.Second
)

// SvrCfg 是 server 啟動所需的全部依賴，一律由呼叫端明確注入。
//
//   - RootDir：描述檔根目錄（本機路徑）。Source 非 nil 時忽略。
//   - Source：自訂描述檔來源（例如 embed.FS 或 MemSource）。
//   - Hooks：描述檔引用的 hook 註冊表，可多個，名稱不可重複。
type SvrCfg struct {
	Addr            string
	RootDir         string
	Source          source.Source
	Hooks           []*hook.Registry
	Log             *slog.Logger
	ShutdownTimeout time.Duration
}

// Valid 補上預設值並檢查必要依賴。
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if strings.TrimSpace(sc.Addr) == "" {
		sc.Addr = DefaultAddr
	}
	if !strings.Contains(sc.Addr, ":") {
		return errs.Fatalf("invalid listen address: %q", sc.Addr)
	}
	if sc.ShutdownTimeout <= 0 {
		sc.ShutdownTimeout = DefaultShutdownTimeout
	}
	if sc.Source == nil {
		if strings.TrimSpace(sc.RootDir) == "" {
			sc.RootDir = DefaultRootDir
		}
		src, err := source.NewOSDir(sc.RootDir)
		if err != nil {
			return err
		}
		sc.Source = src
	}
	return nil
}

// FileCfg 是 YAML 設定檔的形狀。
//
//	addr: ":5808"
//	root: ./controller
//	log_mode: ModeProd
//	shutdown_timeout: 10s
type FileCfg struct {
	Addr            string `yaml:"addr"`
	Root            string `yaml:"root"`
	LogMode         string `yaml:"log_mode"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// LoadFile 讀取 YAML 設定檔。未知欄位一律拒絕。
func LoadFile(path string) (*FileCfg, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Filesystem(err, "read config file failed", path)
	}
	fc := &FileCfg{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil && !errors.Is(err, io.EOF) {
		e := errs.WrapWithExtra(err, "failed to unmarshal config file", path)
		e.Kind = errs.KindConfig
		return nil, e
	}
	if fc.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(fc.ShutdownTimeout); err != nil {
			return nil, errs.Configf("invalid shutdown_timeout %q", fc.ShutdownTimeout)
		}
	}
	return fc, nil
}

// Timeout 回傳解析後的 shutdown_timeout；未設定時為 0。
func (fc *FileCfg) Timeout() time.Duration {
	d, _ := time.ParseDuration(fc.ShutdownTimeout)
	return d
}
