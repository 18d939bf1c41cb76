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

// Package engine implements the per-instance interception engine.
//
// An Engine maps each whitelisted method name to an ordered chain of
// interceptors. Invoke composes the chain right to left around a fallback,
// so the first interceptor registered is the first to see the call and the
// last to see its result:
//
//	chain [A, B], fallback f:  A(args, B'(args', f'))
//
// Each interceptor decides, by whether and how it calls next, to
// short-circuit, pass through, or transform arguments and results.
//
// The set of whitelisted names is fixed when the engine is seeded; Extend
// only grows chains of names that are already present. An Engine is owned
// by a single proxy instance; concurrent mutation is undefined behavior.
package engine

import (
	"fmt"
	"slices"
	"sort"

	"dirpx.dev/proxy/apis"
)

// Engine is the default apis.Engine.
type Engine struct {
	owner   apis.Proxied
	methods map[string][]apis.Interceptor
}

// Ensure Engine implements apis.Engine.
var _ apis.Engine = (*Engine)(nil)

// New creates an empty engine whose interceptors run with owner as self.
func New(owner apis.Proxied) *Engine {
	return &Engine{
		owner:   owner,
		methods: make(map[string][]apis.Interceptor),
	}
}

// SetChain whitelists name and replaces its chain with a copy of chain.
// It is used while wiring a fresh instance from its spec.
func (e *Engine) SetChain(name string, chain []apis.Interceptor) {
	e.methods[name] = slices.Clone(chain)
}

// Invoke runs the chain registered for name around fallback.
func (e *Engine) Invoke(name string, args []any, fallback apis.Next) ([]any, error) {
	chain, ok := e.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: method %s is not proxied", apis.ErrNotWhitelisted, name)
	}

	next := fallback
	if next == nil {
		next = func(...any) ([]any, error) {
			return nil, fmt.Errorf("%w: method %s has no fallback", apis.ErrArgument, name)
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		fn, inner := chain[i], next
		next = func(callArgs ...any) ([]any, error) {
			return fn(e.owner, callArgs, inner)
		}
	}
	return next(args...)
}

// Extend appends fn to the chain of name, making it the innermost
// interceptor so far.
func (e *Engine) Extend(name string, fn apis.Interceptor) error {
	chain, ok := e.methods[name]
	if !ok {
		return fmt.Errorf("%w: method %s cannot be intercepted on an instance", apis.ErrNotWhitelisted, name)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil interceptor for %s", apis.ErrArgument, name)
	}
	e.methods[name] = append(chain, fn)
	return nil
}

// Whitelisted reports whether name accepts interceptors.
func (e *Engine) Whitelisted(name string) bool {
	_, ok := e.methods[name]
	return ok
}

// Methods returns the whitelisted method names in sorted order.
func (e *Engine) Methods() []string {
	names := make([]string, 0, len(e.methods))
	for name := range e.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the chain length for name.
func (e *Engine) Len(name string) int {
	return len(e.methods[name])
}
