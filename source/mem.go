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
	"sort"
	"strings"

	"github.com/zintix-labs/routewalk/descriptor"
	"github.com/zintix-labs/routewalk/errs"
)

// MemSource 是「檔案位置 → 描述檔」的記憶體註冊表。
//
// 目錄不需要註冊，由已註冊的檔案路徑推導。一旦 Freeze，不再接受註冊。
type MemSource struct {
	files  map[string]*descriptor.Module
	frozen bool
}

func NewMem() *MemSource {
	return &MemSource{files: make(map[string]*descriptor.Module, 32)}
}

// Register 註冊一個描述檔。file 例如 "user/profile.yaml"；模組會先經過 Validate。
func (s *MemSource) Register(file string, m *descriptor.Module) error {
	if s.frozen {
		return errs.NewWarn("can not register when source already frozen")
	}
	p := clean(file)
	if p == "." || !fs.ValidPath(p) {
		return errs.Configf("invalid descriptor location: %q", file)
	}
	if err := m.Validate(); err != nil {
		return errs.WrapWithExtra(err, "register descriptor failed", file)
	}
	if _, ok := s.files[p]; ok {
		return errs.Configf("duplicate descriptor location: %s", p)
	}
	for other := range s.files {
		if strings.HasPrefix(other, p+"/") || strings.HasPrefix(p, other+"/") {
			return errs.Configf("descriptor location conflicts with directory: %s and %s", p, other)
		}
	}
	s.files[p] = m
	return nil
}

func (s *MemSource) Freeze() { s.frozen = true }

func (s *MemSource) IsFrozen() bool { return s.frozen }

func (s *MemSource) List(dir string) ([]Entry, error) {
	d := clean(dir)
	prefix := d + "/"
	if d == "." {
		prefix = ""
	}
	seen := make(map[string]bool, 8)
	for p := range s.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			seen[rest[:i]] = true
		} else {
			seen[rest] = false
		}
	}
	if len(seen) == 0 && d != "." {
		return nil, errs.Filesystem(fs.ErrNotExist, "list directory failed", dir)
	}
	out := make([]Entry, 0, len(seen))
	for name, isDir := range seen {
		out = append(out, Entry{Name: name, IsDir: isDir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemSource) Load(file string) (*descriptor.Module, error) {
	m, ok := s.files[clean(file)]
	if !ok {
		return nil, errs.Filesystem(fs.ErrNotExist, "descriptor not registered", file)
	}
	return m, nil
}
