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

// Package synth is the default, reflection-based type synthesizer.
//
// Go cannot derive new named types at run time, so a synthesized proxy type
// is a delegate: every instance wraps a pointer to the base struct, and the
// type records which methods are overridden, which interfaces the instance
// claims, and which extra fields it carries. Calls on non-overridden methods
// are forwarded to the base unchanged.
//
// Synthesis validates the spec against the base type up front, so that every
// later failure is a call-time argument problem rather than a shape problem.
package synth

import (
	"fmt"
	"reflect"

	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/config"
	uref "dirpx.dev/proxy/utils/reflect"
)

var errorType = reflect.TypeFor[error]()

// Option customizes the synthesizer.
type Option func(*synthesizer)

// WithMaxUnwrap bounds how many pointer levels are stripped from base types.
func WithMaxUnwrap(n int) Option {
	return func(s *synthesizer) {
		if n > 0 {
			s.maxUnwrap = n
		}
	}
}

// New creates the default apis.Synthesizer.
func New(opts ...Option) apis.Synthesizer {
	s := &synthesizer{maxUnwrap: config.DefaultMaxUnwrap}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type synthesizer struct {
	maxUnwrap int
}

// Ensure synthesizer implements apis.Synthesizer.
var _ apis.Synthesizer = (*synthesizer)(nil)

// Synthesize validates sp against its base type and builds the proxy type.
func (s *synthesizer) Synthesize(name string, sp apis.Spec) (apis.Type, error) {
	if sp.BaseType() == nil {
		return nil, unsupported("%s: no base type", name)
	}
	base := uref.Deref(sp.BaseType(), s.maxUnwrap)
	if base.Kind() != reflect.Struct || base.Name() == "" {
		return nil, unsupported("%s: base %s is not a named struct type", name, sp.BaseType())
	}

	t := &proxyType{
		name:   name,
		base:   base,
		ptr:    reflect.PointerTo(base),
		modes:  make(map[string]apis.MethodMode),
		fields: make(map[string]apis.Visibility),
	}

	if err := t.bindConstructor(sp.Constructor()); err != nil {
		return nil, err
	}

	t.ifaces = sp.Interfaces()
	for _, iface := range t.ifaces {
		if iface.Kind() != reflect.Interface {
			return nil, unsupported("%s: %s is not an interface", name, iface)
		}
	}

	t.methods = sp.MethodNames()
	for _, m := range t.methods {
		mode, _ := sp.MethodMode(m)
		if !uref.IsExported(m) {
			return nil, unsupported("%s: method %s is not exported", name, m)
		}
		_, onBase := t.ptr.MethodByName(m)
		if !onBase && (mode == apis.ModeIntercept || !t.declared(m)) {
			return nil, unsupported("%s: method %s does not exist on %s", name, m, base)
		}
		t.modes[m] = mode
	}

	for _, iface := range t.ifaces {
		if !t.Implements(iface) {
			return nil, unsupported("%s: %s does not implement %s", name, base, iface)
		}
	}

	t.fieldNames = sp.FieldNames()
	for _, f := range t.fieldNames {
		if !uref.IsIdentifier(f) {
			return nil, unsupported("%s: field name %q is not an identifier", name, f)
		}
		if _, ok := base.FieldByName(f); ok {
			return nil, unsupported("%s: field %s shadows a field of %s", name, f, base)
		}
		if _, ok := t.ptr.MethodByName(f); ok {
			return nil, unsupported("%s: field %s shadows a method of %s", name, f, base)
		}
		vis, _ := sp.FieldVisibility(f)
		t.fields[f] = vis
	}

	return t, nil
}

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apis.ErrSynthesisUnsupported, fmt.Sprintf(format, args...))
}
