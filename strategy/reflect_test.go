/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strategy

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/proxy/apis"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type W[T any] struct{ V T }

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{MaxUnwrap: 8}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func qualified(c *apis.Config) { c.QualifiedNames = true }

// TestReflectStrategy_DynamicTypes names the dynamic types of sample values.
func TestReflectStrategy_DynamicTypes(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		val      any
		cfg      apis.Config
		expected string
	}{
		{"plain struct", A{}, cfg(), "A"},
		{"qualified", A{}, cfg(qualified), "strategy.A"},
		{"ptr", &A{}, cfg(), "A"},
		{"slice", []A{}, cfg(), "A"},
		{"array", [2]A{}, cfg(), "A"},
		{"chan", make(chan A), cfg(), "A"},
		{"map prefers named elem", map[string]A{}, cfg(), "A"},
		{"map falls back to key", map[string][]int{}, cfg(), "string"},
		{"builtin", 42, cfg(), "int"},
		{"builtin qualified", 42, cfg(qualified), "int"},
		{"generic strips params", G[int]{}, cfg(), "G"},
		{"wrapped generic", []W[G[int]]{}, cfg(qualified), "strategy.W"},
		{"unnamed", struct{}{}, cfg(), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolveType(reflect.TypeOf(tc.val), tc.cfg)
			if !ok {
				t.Fatalf("expected ok=true for %T", tc.val)
			}
			if got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestReflectStrategy_ByType(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		typ      reflect.Type
		cfg      apis.Config
		expected string
	}{
		{"type plain", reflect.TypeOf(A{}), cfg(), "A"},
		{"type ptr", reflect.TypeOf(&A{}), cfg(qualified), "strategy.A"},
		{"type slice", reflect.TypeOf([]A{}), cfg(), "A"},
		{"type chan", reflect.TypeOf((chan A)(nil)), cfg(), "A"},
		{"type map", reflect.TypeOf(map[string]A{}), cfg(), "A"},
		{"type generic instantiation", reflect.TypeOf(G[int]{}), cfg(), "G"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolveType(tc.typ, tc.cfg)
			if !ok {
				t.Fatalf("expected ok=true for %v", tc.typ)
			}
			if got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}

	if _, ok := s.TryResolveType(nil, cfg()); ok {
		t.Fatalf("nil type: expected ok=false, got true")
	}
}

func TestReflectStrategy_MaxUnwrap(t *testing.T) {
	s := NewReflectStrategy()

	type PP = **A
	tt := reflect.TypeOf((*PP)(nil)).Elem() // **A type (not a value)

	// Too small -> no named type reached.
	t.Run("tight limit", func(t *testing.T) {
		got, ok := s.TryResolveType(tt, cfg(func(c *apis.Config) { c.MaxUnwrap = 1 }))
		if !ok || got != "" {
			t.Fatalf("MaxUnwrap=1: expected empty resolution, got (%q,%v)", got, ok)
		}
	})

	// Large enough -> success.
	t.Run("wide limit", func(t *testing.T) {
		got, ok := s.TryResolveType(tt, cfg())
		if !ok || got != "A" {
			t.Fatalf("MaxUnwrap=8: got (%q,%v), want (A,true)", got, ok)
		}
	})
}

// This test stresses the memoization and Normalize path under concurrency.
func TestReflectStrategy_Concurrent(t *testing.T) {
	s := NewReflectStrategy()
	confs := []apis.Config{cfg(), cfg(qualified)}

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(W[G[int]]{}),
		reflect.TypeOf(0),
	}
	expect := [][]string{
		{"A", "A", "A", "A", "G", "W", "int"},
		{"strategy.A", "strategy.A", "strategy.A", "strategy.A", "strategy.G", "strategy.W", "int"},
	}

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				idx := i % len(types)
				c := (i + id) % len(confs)
				got, ok := s.TryResolveType(types[idx], confs[c])
				if !ok || got != expect[c][idx] {
					errCh <- got
					return
				}
			}
		}(w)
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent resolve mismatch: got=%q", e)
	}
}

// ---- Benchmarks ----

func BenchmarkReflectStrategy_ByType(b *testing.B) {
	s := NewReflectStrategy()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(W[G[int]]{}),
		reflect.TypeOf(0),
	}

	configs := []struct {
		name string
		cfg  apis.Config
	}{
		{"default", cfg()},
		{"qualified", cfg(qualified)},
		{"low_maxunwrap", cfg(func(c *apis.Config) { c.MaxUnwrap = 1 })},
	}

	for _, cc := range configs {
		b.Run(cc.name, func(b *testing.B) {
			// Warm-up cache
			for _, t0 := range types {
				s.TryResolveType(t0, cc.cfg)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				t0 := types[i%len(types)]
				s.TryResolveType(t0, cc.cfg)
			}
		})
	}
}
