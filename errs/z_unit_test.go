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

package errs_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/zintix-labs/routewalk/errs"
)

func TestKindPropagation(t *testing.T) {
	cfg := errs.Configf("hook is not registered: %s", "auth")
	if cfg.ErrLv != errs.Fatal || cfg.Kind != errs.KindConfig {
		t.Fatalf("Configf = %+v", cfg)
	}
	wrapped := errs.WrapWithExtra(cfg, "resolve route failed", "user.yaml#routers[0]")
	if !errs.IsKind(wrapped, errs.KindConfig) || wrapped.ErrLv != errs.Fatal {
		t.Fatalf("wrap must keep kind and level: %+v", wrapped)
	}
	if !strings.Contains(wrapped.Error(), "kind=config") || !strings.Contains(wrapped.Error(), "user.yaml#routers[0]") {
		t.Fatalf("Error() = %q", wrapped.Error())
	}

	fsErr := errs.Filesystem(fs.ErrNotExist, "list directory failed", "./admin")
	if !errors.Is(fsErr, fs.ErrNotExist) || !errs.IsKind(fsErr, errs.KindFilesystem) {
		t.Fatalf("Filesystem = %+v", fsErr)
	}

	rt := errs.Runtime(errs.NewWarn("bad input"), "hook failed")
	if rt.ErrLv != errs.Warn || !errs.IsKind(rt, errs.KindRuntime) {
		t.Fatalf("Runtime must keep cause level: %+v", rt)
	}
	if errs.IsKind(errors.New("plain"), errs.KindConfig) || errs.IsKind(nil, errs.KindConfig) {
		t.Fatalf("plain errors have no kind")
	}
	if errs.IsKind(errs.NewFatal("x"), errs.KindConfig) {
		t.Fatalf("unknown kind must not match")
	}
}

func TestAsErr(t *testing.T) {
	if _, ok := errs.AsErr(errors.New("x")); ok {
		t.Fatalf("AsErr(plain) = ok")
	}
	e, ok := errs.AsErr(errs.Wrap(errors.New("x"), "outer"))
	if !ok || e.Message != "outer" || e.ErrLv != errs.Fatal {
		t.Fatalf("AsErr = %+v, %v", e, ok)
	}
}
