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

package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zintix-labs/routewalk/server/app"
)

// comp 是一個阻塞到 Shutdown 或 fail 的 Component。
type comp struct {
	name  string
	stop  chan struct{}
	fail  error
	once  sync.Once
	order *[]string
	mu    *sync.Mutex
}

func newComp(name string, order *[]string, mu *sync.Mutex) *comp {
	return &comp{name: name, stop: make(chan struct{}), order: order, mu: mu}
}

func (c *comp) Run() error {
	if c.fail != nil {
		return c.fail
	}
	<-c.stop
	return nil
}

func (c *comp) Shutdown(context.Context) error {
	c.once.Do(func() { close(c.stop) })
	c.mu.Lock()
	*c.order = append(*c.order, c.name)
	c.mu.Unlock()
	return nil
}

func TestRunContextShutdownOrder(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)
	a := app.NewWith(newComp("http", &order, &mu), newComp("worker", &order, &mu)).
		WithShutdownTimeout(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunContext(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunContext: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("RunContext did not return")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "worker" || order[1] != "http" {
		t.Fatalf("shutdown order = %v, want reverse registration", order)
	}
}

func TestRunReturnsComponentError(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)
	boom := errors.New("listen failed")
	bad := newComp("http", &order, &mu)
	bad.fail = boom
	a := app.NewWith(bad)
	if err := a.RunContext(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestRunWithoutComponents(t *testing.T) {
	if err := app.New().Run(); err == nil {
		t.Fatalf("expected error for empty app")
	}
}
