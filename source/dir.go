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

package source

import (
	"io/fs"
	"os"

	"github.com/zintix-labs/routewalk/descriptor"
	"github.com/zintix-labs/routewalk/errs"
)

// DirSource 以 fs.FS 作為描述檔來源。
type DirSource struct {
	fsys fs.FS
}

// NewDir 以 fs.FS 建立 DirSource。
func NewDir(fsys fs.FS) (*DirSource, error) {
	if fsys == nil {
		return nil, errs.Configf("nil fs.FS")
	}
	return &DirSource{fsys: fsys}, nil
}

// NewOSDir 以本機目錄建立 DirSource。目錄必須存在。
func NewOSDir(root string) (*DirSource, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, errs.Filesystem(err, "controller root not found", root)
	}
	if !st.IsDir() {
		return nil, errs.Filesystem(nil, "controller root is not a directory", root)
	}
	return &DirSource{fsys: os.DirFS(root)}, nil
}

// List 列出目錄，fs.ReadDir 已依名稱排序。
func (s *DirSource) List(dir string) ([]Entry, error) {
	des, err := fs.ReadDir(s.fsys, clean(dir))
	if err != nil {
		return nil, errs.Filesystem(err, "list directory failed", dir)
	}
	out := make([]Entry, 0, len(des))
	for _, d := range des {
		isDir := d.IsDir()
		// 與 lstat 一致：symlink 不跟隨，視為一般檔案
		if d.Type()&fs.ModeSymlink != 0 {
			isDir = false
		}
		out = append(out, Entry{Name: d.Name(), IsDir: isDir})
	}
	return out, nil
}

// Load 讀取並解碼描述檔。格式不支援或內容不合法都是設定錯誤。
func (s *DirSource) Load(file string) (*descriptor.Module, error) {
	p := clean(file)
	if !descriptor.Supported(p) {
		return nil, errs.Configf("unsupported descriptor format: %q", file)
	}
	raw, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return nil, errs.Filesystem(err, "read descriptor failed", file)
	}
	m, err := descriptor.ParseByExt(p, raw)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "load descriptor failed", file)
	}
	return m, nil
}
