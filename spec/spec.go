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

// Package spec holds the immutable proxy specification builder.
//
// A Spec names a base type and accumulates the methods, interfaces and
// extra fields its proxy type must support. Every builder call returns a new
// Spec and leaves the receiver untouched, so partially built specs can be
// shared and forked freely:
//
//	base := spec.New(reflect.TypeFor[Greeter]()).MustAddMethod("Greet", nil)
//	loud := base.MustAddMethod("Greet", shout)   // base still has an empty chain
//
// Untouched maps are shared between a spec and the specs derived from it;
// a map is copied only when the call modifies it.
package spec

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"

	"dirpx.dev/proxy/apis"
	uref "dirpx.dev/proxy/utils/reflect"
)

// method is a single entry of a spec's method table. Exactly one of chain
// (ModeIntercept) or body (ModeReplace) is meaningful.
type method struct {
	mode  apis.MethodMode
	chain []apis.Interceptor
	body  apis.Body
}

// Spec is an immutable description of a proxy type.
type Spec struct {
	base       reflect.Type
	ctor       reflect.Value
	methods    map[string]method
	interfaces map[string]reflect.Type
	fields     map[string]apis.Visibility
}

// Ensure Spec implements apis.Spec.
var _ apis.Spec = Spec{}

// New wraps a base type reference in an empty Spec. base may be:
//
//   - a reflect.Type (the base type, or a pointer to it);
//   - a constructor function such as func(name string) *Greeter, whose
//     first result is the base type and which receives the arguments later
//     passed to instantiation;
//   - any other value, whose dynamic type becomes the base type.
//
// New never fails; unusable bases are reported at synthesis time.
func New(base any) Spec {
	var s Spec
	switch b := base.(type) {
	case nil:
	case reflect.Type:
		s.base = b
	default:
		v := reflect.ValueOf(base)
		if v.Kind() != reflect.Func {
			s.base = v.Type()
			break
		}
		if v.Type().NumOut() > 0 {
			s.base = v.Type().Out(0)
		}
		if !v.IsNil() {
			s.ctor = v
		}
	}
	return s
}

// AddMethod returns a copy of s with name overridden by impl:
//
//   - nil whitelists name for interception without adding behavior;
//   - an apis.Interceptor (or a func with its signature) is appended to the
//     name's interceptor chain, which runs first-in-first-out;
//   - an apis.Body (or a func with its signature) replaces the method,
//     discarding any chain registered for name so far.
//
// Any other impl, an empty name, or an interceptor for a method already
// replaced by a body fails with apis.ErrInvalidSpecArgument.
func (s Spec) AddMethod(name string, impl any) (Spec, error) {
	if name == "" {
		return s, fmt.Errorf("%w: empty method name", apis.ErrInvalidSpecArgument)
	}

	var (
		ic     apis.Interceptor
		body   apis.Body
		isBody bool
	)
	switch fn := impl.(type) {
	case nil:
	case apis.Interceptor:
		ic = fn
	case func(apis.Proxied, []any, apis.Next) ([]any, error):
		ic = fn
	case apis.Body:
		body, isBody = fn, true
	case func(apis.Proxied, []any) ([]any, error):
		body, isBody = fn, true
	default:
		return s, fmt.Errorf("%w: method %s: unsupported implementation %T", apis.ErrInvalidSpecArgument, name, impl)
	}

	prev, exists := s.methods[name]
	next := method{mode: apis.ModeIntercept}
	switch {
	case isBody:
		if body == nil {
			return s, fmt.Errorf("%w: method %s: nil body", apis.ErrInvalidSpecArgument, name)
		}
		next = method{mode: apis.ModeReplace, body: body}
	case exists && prev.mode == apis.ModeReplace:
		return s, fmt.Errorf("%w: method %s is replaced by a body and cannot be intercepted", apis.ErrInvalidSpecArgument, name)
	default:
		next.chain = prev.chain
		if ic != nil {
			next.chain = append(slices.Clip(prev.chain), ic)
		}
	}

	out := s
	out.methods = maps.Clone(s.methods)
	if out.methods == nil {
		out.methods = make(map[string]method, 1)
	}
	out.methods[name] = next
	return out, nil
}

// MustAddMethod is like AddMethod but panics on error. It is meant for specs
// built from literals in tests and package-level variables.
func (s Spec) MustAddMethod(name string, impl any) Spec {
	out, err := s.AddMethod(name, impl)
	if err != nil {
		panic(err)
	}
	return out
}

// AddInterface returns a copy of s that also declares iface. Adding the same
// interface twice is a no-op; a nil iface is ignored. Whether iface is really
// an interface the base can satisfy is checked at synthesis.
func (s Spec) AddInterface(iface reflect.Type) Spec {
	if iface == nil {
		return s
	}
	id := uref.Identifier(iface)
	if _, ok := s.interfaces[id]; ok {
		return s
	}
	out := s
	out.interfaces = maps.Clone(s.interfaces)
	if out.interfaces == nil {
		out.interfaces = make(map[string]reflect.Type, 1)
	}
	out.interfaces[id] = iface
	return out
}

// AddField returns a copy of s with an extra field. A later call with the
// same name overwrites its visibility.
func (s Spec) AddField(name string, vis apis.Visibility) Spec {
	out := s
	out.fields = maps.Clone(s.fields)
	if out.fields == nil {
		out.fields = make(map[string]apis.Visibility, 1)
	}
	out.fields[name] = vis
	return out
}

// BaseType implements apis.Spec.
func (s Spec) BaseType() reflect.Type { return s.base }

// Constructor implements apis.Spec.
func (s Spec) Constructor() reflect.Value { return s.ctor }

// MethodNames implements apis.Spec.
func (s Spec) MethodNames() []string { return sortedKeys(s.methods) }

// MethodMode implements apis.Spec.
func (s Spec) MethodMode(name string) (apis.MethodMode, bool) {
	m, ok := s.methods[name]
	return m.mode, ok
}

// Interfaces implements apis.Spec.
func (s Spec) Interfaces() []reflect.Type {
	ids := sortedKeys(s.interfaces)
	out := make([]reflect.Type, len(ids))
	for i, id := range ids {
		out[i] = s.interfaces[id]
	}
	return out
}

// FieldNames implements apis.Spec.
func (s Spec) FieldNames() []string { return sortedKeys(s.fields) }

// FieldVisibility implements apis.Spec.
func (s Spec) FieldVisibility(name string) (apis.Visibility, bool) {
	v, ok := s.fields[name]
	return v, ok
}

// Chain returns a copy of the interceptor chain registered for name, and
// false if name is not in intercept mode.
func (s Spec) Chain(name string) ([]apis.Interceptor, bool) {
	m, ok := s.methods[name]
	if !ok || m.mode != apis.ModeIntercept {
		return nil, false
	}
	return slices.Clone(m.chain), true
}

// Body returns the replacement body for name, and false if name is not in
// replace mode.
func (s Spec) Body(name string) (apis.Body, bool) {
	m, ok := s.methods[name]
	if !ok || m.mode != apis.ModeReplace {
		return nil, false
	}
	return m.body, true
}

// String renders the spec's shape for diagnostics.
func (s Spec) String() string {
	return fmt.Sprintf("spec(%s methods=%v interfaces=%d fields=%v)",
		uref.Identifier(s.base), s.MethodNames(), len(s.interfaces), s.FieldNames())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
