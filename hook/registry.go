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

package hook

import (
	"sort"
	"strings"

	"github.com/zintix-labs/routewalk/errs"
)

// Func is one step of a route's hook chain: a pre/post processor or the route's middleware.
//
// Returning a non-nil error aborts the chain; the error is handed to the chain's ErrorHandler.
// A step that has already written a response and wants to stop the chain without an error
// should call c.Abort().
type Func func(c *Context) error

// Registry maps hook names (as referenced by descriptors) to functions.
//
// Registries are filled at startup and treated as read-only once discovery begins.
type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]Func, 64),
	}
}

func (r *Registry) Register(name string, f Func) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.Configf("hook name required")
	}
	if f == nil {
		return errs.Configf("nil hook func: %s", name)
	}
	if _, ok := r.funcs[name]; ok {
		return errs.Configf("duplicate hook: %s", name)
	}
	r.funcs[name] = f
	return nil
}

// MustRegister is Register for package-level registry setup; it panics on error.
func (r *Registry) MustRegister(name string, f Func) *Registry {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves a name. An empty name means "no step" and returns (nil, nil);
// an unknown name is a configuration error.
func (r *Registry) Lookup(name string) (Func, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	f, ok := r.funcs[name]
	if !ok {
		return nil, errs.Configf("hook is not registered: %s", name)
	}
	return f, nil
}

func (r *Registry) IsExist(name string) bool {
	_, ok := r.funcs[strings.TrimSpace(name)]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.funcs))
	for k := range r.funcs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MergeRegistry merges multiple registries into a new one.
//
// Function values are not comparable, so a duplicate name is an error unconditionally
// rather than "last one wins".
func MergeRegistry(regs ...*Registry) (*Registry, error) {
	hr := NewRegistry()
	origin := make(map[string]int, 64)

	for i, r := range regs {
		if r == nil {
			continue
		}
		for name, f := range r.funcs {
			if _, ok := hr.funcs[name]; ok {
				return nil, errs.Configf("duplicate hook %s (registry #%d and #%d)", name, origin[name], i)
			}
			hr.funcs[name] = f
			origin[name] = i
		}
	}
	return hr, nil
}
