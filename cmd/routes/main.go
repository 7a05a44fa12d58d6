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

	"github.com/zintix-labs/routewalk"
	"github.com/zintix-labs/routewalk/demo"
	"github.com/zintix-labs/routewalk/demo/demo_hooks"
	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/perf"
	"github.com/zintix-labs/routewalk/router"
	"github.com/zintix-labs/routewalk/server/logger"
	"github.com/zintix-labs/routewalk/source"
)

// routes 只做探索與註冊（不監聽），印出路由表。適合在 CI 檢查描述檔是否合法。
//
//	go run ./cmd/routes -root ./controller
func main() {
	root := flag.String("root", "", "controller root directory (default: embedded demo)")
	verbose := flag.Bool("v", false, "log discovery steps")
	mode := flag.String("pprof", "", "profile discovery: cpu|heap|allocs")
	flag.Parse()

	lm := logger.ModeSilence
	if *verbose {
		lm = logger.ModeDev
	}
	log := logger.NewDefaultLogger(lm)

	var (
		eng *routewalk.Engine
		err error
	)
	if *root == "" {
		eng, err = demo.New(routewalk.WithLogger(log))
	} else {
		var src *source.DirSource
		if src, err = source.NewOSDir(*root); err == nil {
			eng, err = routewalk.New(src, routewalk.Hooks(demo_hooks.Hooks), routewalk.WithLogger(log))
		}
	}
	if err != nil {
		fail(err)
	}

	rt := router.New()
	err = perf.Run(func() error {
		_, err := eng.Mount(rt)
		return err
	}, *mode, perf.DefaultDir)
	if err != nil {
		fail(err)
	}
	if err := rt.Table(os.Stdout); err != nil {
		fail(err)
	}
}

func fail(err error) {
	kind := "error"
	if e, ok := errs.AsErr(err); ok && e.Kind != errs.KindUnknown {
		kind = e.Kind.String()
	}
	fmt.Fprintf(os.Stderr, "[%s] %v\n", kind, err)
	os.Exit(1)
}
