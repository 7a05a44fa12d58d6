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

// Package discovery 掃描描述檔目錄樹，把每一條宣告的路由解析成 Registration。
//
// 流程：
//  1. Walker 以深度優先走訪根目錄（依名稱排序），子目錄遞迴，檔案載入成 descriptor.Module。
//  2. 模組沒有宣告 BASE_PATH 時，以檔案所在的子目錄（相對於根目錄）作為 base path。
//  3. 每一條 Entry 交給 Resolver 推導 path、method 並組合 hook chain。
//
// 任何錯誤（列目錄、讀檔、描述檔不合法、hook 不存在）都會讓整個探索失敗，不回傳部分結果。
package discovery

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/zintix-labs/routewalk/errs"
	"github.com/zintix-labs/routewalk/source"
)

// Walker 走訪描述檔目錄樹。
type Walker struct {
	src source.Source
	res *Resolver
	log *slog.Logger
}

// NewWalker 建立 Walker。log 為 nil 時不輸出任何紀錄。
func NewWalker(src source.Source, res *Resolver, log *slog.Logger) *Walker {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if res == nil {
		res = NewResolver(nil, nil)
	}
	return &Walker{src: src, res: res, log: log}
}

// Walk 從 root 開始走訪，回傳依下列順序排列的 Registration：
// (a) 目錄項目名稱排序 (b) 檔案內 routers 宣告順序 (c) path 陣列順序。
func (w *Walker) Walk(root string) ([]Registration, error) {
	if w.src == nil {
		return nil, errs.Configf("nil source")
	}
	root = strings.TrimRight(root, "/")
	if root == "" {
		root = "."
	}
	return w.walk(root, root)
}

func (w *Walker) walk(root, dir string) ([]Registration, error) {
	entries, err := w.src.List(dir)
	if err != nil {
		return nil, err
	}
	res := make([]Registration, 0, len(entries))
	for _, ent := range entries {
		// 隱藏檔與隱藏目錄（.git 等）一律略過
		if strings.HasPrefix(ent.Name, ".") {
			continue
		}
		filePath := dir + "/" + ent.Name
		if ent.IsDir {
			w.log.Debug("discovery.descend", slog.String("dir", filePath))
			sub, err := w.walk(root, filePath)
			if err != nil {
				return nil, err
			}
			res = append(res, sub...)
			continue
		}
		regs, err := w.file(root, filePath, ent.Name)
		if err != nil {
			return nil, err
		}
		res = append(res, regs...)
	}
	return res, nil
}

func (w *Walker) file(root, filePath, fileName string) ([]Registration, error) {
	m, err := w.src.Load(filePath)
	if err != nil {
		return nil, err
	}
	if m.Routers == nil {
		e := errs.Configf("descriptor has no routers")
		e.Extra = filePath
		return nil, e
	}
	basePath := m.BasePath
	if basePath == "" {
		basePath = BasePath(root, filePath)
	}
	display := strings.TrimPrefix(filePath, "./")

	var res []Registration
	for i, ent := range m.Routers {
		regs, err := w.res.Resolve(ent, fileName, basePath, m)
		if err != nil {
			return nil, errs.WrapWithExtra(err, "resolve route failed", display+"#routers["+strconv.Itoa(i)+"]")
		}
		for j := range regs {
			regs[j].File = display
			w.log.Debug("discovery.resolved",
				slog.String("path", regs[j].Path),
				slog.Any("methods", regs[j].Methods),
				slog.String("file", display),
			)
		}
		res = append(res, regs...)
	}
	return res, nil
}

// BasePath 由檔案位置推導 base path：去掉根目錄前綴，再去掉最後一個 '/' 之後的內容。
// 結果為空（檔案直接位於根目錄下）時回傳 "/"。
//
//	BasePath("/app/controller", "/app/controller/admin/users.js") == "/admin"
//	BasePath("/app/controller", "/app/controller/users.js")       == "/"
func BasePath(root, filePath string) string {
	rel := strings.TrimPrefix(filePath, root)
	i := strings.LastIndexByte(rel, '/')
	if i <= 0 {
		return "/"
	}
	return rel[:i]
}
