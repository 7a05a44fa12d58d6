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

// Package source 提供路由探索所需的檔案系統協作者（filesystem collaborator）。
//
// 探索流程只依賴 Source 介面的兩個操作：列出目錄、載入描述檔。
//   - DirSource：以任意 fs.FS 為來源（os.DirFS 本機目錄、go:embed 打包進 binary 皆可），
//     檔案內容以 YAML/JSON 解碼成 descriptor.Module。
//   - MemSource：明確註冊「檔案位置 → 描述檔」的記憶體註冊表，適合程式碼產生或測試，
//     完全不需要讀檔。
//
// 兩者的 List 都回傳依名稱排序的結果，讓註冊順序在不同平台上保持一致。
package source

import (
	"path"
	"strings"

	"github.com/zintix-labs/routewalk/descriptor"
)

// Entry 是目錄中的一個項目。
type Entry struct {
	Name  string
	IsDir bool
}

// Source 是探索流程看到的檔案系統。
//
// 路徑一律為 '/' 分隔；"." 代表來源根目錄。兩個操作的錯誤都視為致命。
type Source interface {
	List(dir string) ([]Entry, error)
	Load(file string) (*descriptor.Module, error)
}

// clean 把 walker 組出來的路徑（例如 "./admin/users.yaml"）轉成 fs.FS 可接受的形式。
func clean(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}
