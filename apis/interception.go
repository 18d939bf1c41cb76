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

package apis

import "reflect"

// Next is the continuation handed to an interceptor. It runs the remainder
// of the chain, ending in the base implementation, with whatever
// arguments it is given.
//
// When the base method's last result is a non-nil error, that error is
// also returned as err; out still holds every result.
type Next func(args ...any) ([]any, error)

// Interceptor observes a call to a whitelisted method. It may pass the call
// through (next(args...)), transform arguments or results around it, or
// short-circuit by never calling next. self is the owning proxy instance.
type Interceptor func(self Proxied, args []any, next Next) ([]any, error)

// Body is a replacement implementation for a method. Unlike an Interceptor it
// has no continuation: the base implementation is never reachable.
type Body func(self Proxied, args []any) ([]any, error)

// Engine holds the per-instance interceptor chains of a proxy.
//
// The set of method names is fixed when the instance is built; only the
// chain contents of already-declared names can grow afterwards. An Engine
// belongs to exactly one instance and is not safe for concurrent mutation.
type Engine interface {
	// Invoke composes the chain registered for name around fallback and runs
	// it with args. It fails with ErrNotWhitelisted for undeclared names.
	Invoke(name string, args []any, fallback Next) ([]any, error)

	// Extend appends fn to the end of the chain for name. It fails with
	// ErrNotWhitelisted for undeclared names.
	Extend(name string, fn Interceptor) error

	// Whitelisted reports whether name accepts interceptors.
	Whitelisted(name string) bool

	// Methods returns the whitelisted method names in sorted order.
	Methods() []string

	// Len returns the chain length for name (0 if not whitelisted).
	Len(name string) int
}

// Proxied is implemented by every proxy instance.
type Proxied interface {
	Identifier

	// Proxy returns the instance's interception engine, creating it on
	// first access.
	Proxy() Engine

	// Call invokes the named method on the instance. Whitelisted methods
	// run through the engine, replaced methods run their body, and all
	// other methods run the base implementation unchanged. A non-nil
	// trailing error returned by the base is reported as err.
	Call(name string, args ...any) ([]any, error)

	// Base returns the wrapped base value (a pointer to the base type).
	Base() any

	// Field returns the value of a declared extra field.
	Field(name string) (any, bool)

	// SetField assigns a declared extra field.
	SetField(name string, v any) error

	// Implements reports whether the instance provides every method of the
	// interface type iface.
	Implements(iface reflect.Type) bool
}
