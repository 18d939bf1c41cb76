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

package synth

import (
	"fmt"
	"reflect"

	"dirpx.dev/proxy/apis"
	uref "dirpx.dev/proxy/utils/reflect"
)

// proxyType is the apis.Type produced by the default synthesizer.
type proxyType struct {
	name       string
	base       reflect.Type
	ptr        reflect.Type
	ctor       reflect.Value
	methods    []string
	modes      map[string]apis.MethodMode
	ifaces     []reflect.Type
	fieldNames []string
	fields     map[string]apis.Visibility
}

// Ensure proxyType implements apis.Type.
var _ apis.Type = (*proxyType)(nil)

func (t *proxyType) Name() string               { return t.name }
func (t *proxyType) Base() reflect.Type         { return t.base }
func (t *proxyType) Methods() []string          { return append([]string(nil), t.methods...) }
func (t *proxyType) Interfaces() []reflect.Type { return append([]reflect.Type(nil), t.ifaces...) }
func (t *proxyType) Fields() []string           { return append([]string(nil), t.fieldNames...) }

func (t *proxyType) Mode(name string) (apis.MethodMode, bool) {
	m, ok := t.modes[name]
	return m, ok
}

func (t *proxyType) FieldVisibility(name string) (apis.Visibility, bool) {
	v, ok := t.fields[name]
	return v, ok
}

// Implements reports whether every method of iface is provided either by
// the base pointer type or by a replacement body.
func (t *proxyType) Implements(iface reflect.Type) bool {
	if iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	for i := 0; i < iface.NumMethod(); i++ {
		m := iface.Method(i).Name
		if mode, ok := t.modes[m]; ok && mode == apis.ModeReplace {
			continue
		}
		if _, ok := t.ptr.MethodByName(m); !ok {
			return false
		}
	}
	return true
}

// Method binds the base implementation of name to recv.
func (t *proxyType) Method(recv reflect.Value, name string, strict bool) (apis.Next, bool) {
	if !recv.IsValid() || recv.Type() != t.ptr || !uref.IsExported(name) {
		return nil, false
	}
	m := recv.MethodByName(name)
	if !m.IsValid() {
		return nil, false
	}
	failing := returnsError(m.Type())
	return func(args ...any) ([]any, error) {
		out, err := uref.Call(m, args, strict)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", apis.ErrArgument, t.base.Name(), name, err)
		}
		if failing {
			if failure, _ := out[len(out)-1].(error); failure != nil {
				return out, failure
			}
		}
		return out, nil
	}, true
}

// New constructs a *Base, through the constructor when there is one.
func (t *proxyType) New(args []any, strict bool) (reflect.Value, error) {
	if !t.ctor.IsValid() {
		if len(args) > 0 {
			return reflect.Value{}, fmt.Errorf("%w: %s has no constructor, got %d arguments", apis.ErrArgument, t.base, len(args))
		}
		return reflect.New(t.base), nil
	}

	out, err := uref.Call(t.ctor, args, strict)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: constructing %s: %w", apis.ErrArgument, t.base, err)
	}
	if len(out) == 2 && out[1] != nil {
		return reflect.Value{}, fmt.Errorf("proxy: constructing %s: %w", t.base, out[1].(error))
	}

	v := reflect.ValueOf(out[0])
	if v.Type() == t.base {
		p := reflect.New(t.base)
		p.Elem().Set(v)
		return p, nil
	}
	if v.IsNil() {
		return reflect.Value{}, fmt.Errorf("proxy: constructor of %s returned nil", t.base)
	}
	return v, nil
}

// bindConstructor accepts func(...) T, func(...) *T, and either form with a
// trailing error result.
func (t *proxyType) bindConstructor(ctor reflect.Value) error {
	if !ctor.IsValid() {
		return nil
	}
	ft := ctor.Type()
	switch {
	case ft.NumOut() == 0 || ft.NumOut() > 2:
		return unsupported("%s: constructor %s must return the base and optionally an error", t.name, ft)
	case ft.Out(0) != t.base && ft.Out(0) != t.ptr:
		return unsupported("%s: constructor %s does not return %s", t.name, ft, t.base)
	case ft.NumOut() == 2 && ft.Out(1) != errorType:
		return unsupported("%s: constructor %s second result must be error", t.name, ft)
	}
	t.ctor = ctor
	return nil
}

// declared reports whether name belongs to one of the declared interfaces.
func (t *proxyType) declared(name string) bool {
	for _, iface := range t.ifaces {
		if _, ok := iface.MethodByName(name); ok {
			return true
		}
	}
	return false
}

func returnsError(ft reflect.Type) bool {
	return ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) == errorType
}
