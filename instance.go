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

package proxy

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/engine"
	"dirpx.dev/proxy/metrics"
	"dirpx.dev/proxy/spec"
)

// Invocation modes reported to metrics.
const (
	modeIntercept = "intercept"
	modeReplace   = "replace"
	modeDirect    = "direct"
)

// Instance is a proxy object: a base value wrapped by a synthesized type.
//
// Calls made through Call are dispatched by the method's mode in the type:
// replaced methods run their body, whitelisted methods run through the
// instance's engine, and every other method runs on the base unchanged.
// Calls the base makes on itself do not pass through the proxy.
//
// Call is safe for concurrent use as long as nobody extends the engine or
// assigns fields at the same time.
type Instance struct {
	typ    apis.Type
	spec   spec.Spec
	base   reflect.Value
	fields map[string]any
	id     uuid.UUID
	met    *metrics.Metrics
	strict bool

	once   sync.Once
	engine *engine.Engine
}

// Ensure Instance implements apis.Proxied.
var _ apis.Proxied = (*Instance)(nil)

func newInstance(typ apis.Type, s spec.Spec, base reflect.Value, met *metrics.Metrics, strict bool) *Instance {
	return &Instance{
		typ:    typ,
		spec:   s,
		base:   base,
		fields: make(map[string]any, len(typ.Fields())),
		id:     uuid.New(),
		met:    met,
		strict: strict,
	}
}

// Proxy returns the interception engine, seeding it on first use with a
// copy of each whitelisted method's chain from the spec.
func (i *Instance) Proxy() apis.Engine {
	i.once.Do(func() {
		e := engine.New(i)
		for _, name := range i.typ.Methods() {
			if chain, ok := i.spec.Chain(name); ok {
				e.SetChain(name, chain)
			}
		}
		i.engine = e
	})
	return i.engine
}

// Call invokes the method name with args and returns its results.
func (i *Instance) Call(name string, args ...any) ([]any, error) {
	if mode, ok := i.typ.Mode(name); ok {
		if mode == apis.ModeReplace {
			body, _ := i.spec.Body(name)
			i.met.ObserveInvocation(modeReplace)
			return body(i, args)
		}
		fallback, _ := i.typ.Method(i.base, name, i.strict)
		i.met.ObserveInvocation(modeIntercept)
		return i.Proxy().Invoke(name, args, fallback)
	}

	next, ok := i.typ.Method(i.base, name, i.strict)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %s", apis.ErrUnknownMethod, i.typ.Name(), name)
	}
	i.met.ObserveInvocation(modeDirect)
	return next(args...)
}

// Base returns the wrapped base value, a pointer to the base struct.
func (i *Instance) Base() any { return i.base.Interface() }

// Field returns the value of a declared extra field. Undeclared names
// report false; declared but unset fields hold nil.
func (i *Instance) Field(name string) (any, bool) {
	if _, ok := i.typ.FieldVisibility(name); !ok {
		return nil, false
	}
	return i.fields[name], true
}

// SetField assigns a declared extra field.
func (i *Instance) SetField(name string, v any) error {
	if _, ok := i.typ.FieldVisibility(name); !ok {
		return fmt.Errorf("%w: %s has no field %s", apis.ErrUnknownField, i.typ.Name(), name)
	}
	i.fields[name] = v
	return nil
}

// Implements reports whether the instance provides every method of iface.
func (i *Instance) Implements(iface reflect.Type) bool { return i.typ.Implements(iface) }

// Type returns the synthesized type of the instance.
func (i *Instance) Type() apis.Type { return i.typ }

// EntityName returns the synthesized type name, which is the fingerprint.
// A zero Instance has no name.
func (i *Instance) EntityName() string {
	if i.typ == nil {
		return ""
	}
	return i.typ.Name()
}

// EntityID returns the instance's unique identifier.
func (i *Instance) EntityID() string { return i.id.String() }

func (i *Instance) String() string {
	return i.typ.Name() + "#" + i.id.String()
}

// As returns the base of p as a T, for callers that need the concrete
// value. Methods called on the result bypass the proxy.
func As[T any](p apis.Proxied) (T, bool) {
	v, ok := p.Base().(T)
	return v, ok
}

// First returns the first result of a Call as a T. It passes err through,
// and maps a nil result to the zero T.
func First[T any](out []any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if len(out) == 0 {
		return zero, fmt.Errorf("%w: no results", apis.ErrResultType)
	}
	if out[0] == nil {
		return zero, nil
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %s", apis.ErrResultType, out[0], reflect.TypeFor[T]())
	}
	return v, nil
}
