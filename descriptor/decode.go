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

package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/zintix-labs/routewalk/errs"
	"gopkg.in/yaml.v3"
)

// ParseByExt 依檔名副檔名選擇解碼器（.yaml/.yml/.json，大小寫不敏感）。
func ParseByExt(filename string, raw []byte) (*Module, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".yaml", ".yml":
		return FromYAML(raw)
	case ".json":
		return FromJSON(raw)
	default:
		return nil, errs.Configf("unsupported descriptor format: %q", filename)
	}
}

// Supported 判斷檔名是否為可解析的描述檔格式。
func Supported(filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// FromYAML 解碼 YAML 描述檔並執行 Validate。
//
// 未知欄位一律拒絕：拼錯的 middleware 鍵會讓路由靜默失去業務邏輯，比啟動失敗更糟。
func FromYAML(raw []byte) (*Module, error) {
	m := &Module{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.Configf("empty descriptor")
		}
		return nil, wrapConfig(err, "failed to unmarshal yaml descriptor")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromJSON 解碼 JSON 描述檔並執行 Validate。
func FromJSON(raw []byte) (*Module, error) {
	m := &Module{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.Configf("empty descriptor")
		}
		return nil, wrapConfig(err, "failed to unmarshal json descriptor")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func wrapConfig(cause error, msg string) error {
	e := errs.Wrap(cause, msg)
	e.Kind = errs.KindConfig
	return e
}

// -----------------------------------------------------------------------------
//  PathSpec
// -----------------------------------------------------------------------------

func (p *PathSpec) UnmarshalYAML(node *yaml.Node) error {
	*p = PathSpec{}
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			p.Kind = PathNone
		case "!!str":
			p.Kind = PathString
			p.Value = node.Value
		default:
			p.Kind = PathOther
		}
	case yaml.SequenceNode:
		list := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
				*p = PathSpec{Kind: PathOther}
				return nil
			}
			list = append(list, item.Value)
		}
		p.Kind = PathList
		p.List = list
	default:
		p.Kind = PathOther
	}
	return nil
}

func (p PathSpec) MarshalYAML() (any, error) {
	switch p.Kind {
	case PathString:
		return p.Value, nil
	case PathList:
		return p.List, nil
	default:
		return nil, nil
	}
}

// IsZero 讓 yaml 的 omitempty 能辨識未宣告的 path。
func (p PathSpec) IsZero() bool { return p.Kind == PathNone }

func (p *PathSpec) UnmarshalJSON(data []byte) error {
	*p = PathSpec{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		p.Kind = PathNone
	case string:
		p.Kind = PathString
		p.Value = t
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				*p = PathSpec{Kind: PathOther}
				return nil
			}
			list = append(list, s)
		}
		p.Kind = PathList
		p.List = list
	default:
		p.Kind = PathOther
	}
	return nil
}

func (p PathSpec) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PathString:
		return json.Marshal(p.Value)
	case PathList:
		return json.Marshal(p.List)
	default:
		return []byte("null"), nil
	}
}

// -----------------------------------------------------------------------------
//  MethodSpec
// -----------------------------------------------------------------------------

func (m *MethodSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*m = nil
			return nil
		}
		*m = MethodSpec{node.Value}
		return nil
	case yaml.SequenceNode:
		list := []string{}
		if err := node.Decode(&list); err != nil {
			return err
		}
		*m = MethodSpec(list)
		return nil
	default:
		return fmt.Errorf("line %d: method must be a string or a list of strings", node.Line)
	}
}

func (m *MethodSpec) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*m = nil
	case string:
		*m = MethodSpec{t}
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("method list must contain only strings, got %T", item)
			}
			list = append(list, s)
		}
		*m = MethodSpec(list)
	default:
		return fmt.Errorf("method must be a string or a list of strings, got %T", v)
	}
	return nil
}
