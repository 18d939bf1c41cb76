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

// MethodMode is how a spec overrides a method.
type MethodMode int

const (
	// ModeIntercept routes the method through the instance's interceptor
	// chain before falling through to the base implementation.
	ModeIntercept MethodMode = iota
	// ModeReplace swaps the method for a literal body.
	ModeReplace
)

// String returns "intercept" or "replace".
func (m MethodMode) String() string {
	switch m {
	case ModeIntercept:
		return "intercept"
	case ModeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Spec is the read-only view of a proxy specification consumed by
// fingerprinting and type synthesis.
type Spec interface {
	// BaseType is the type being proxied. It may be a pointer type; nil if
	// the spec was created without a usable base.
	BaseType() reflect.Type
	// Constructor is the optional construction function for the base type.
	// The zero reflect.Value means "allocate a zero value".
	Constructor() reflect.Value
	// MethodNames returns the overridden method names in sorted order.
	MethodNames() []string
	// MethodMode reports the override mode of name.
	MethodMode(name string) (MethodMode, bool)
	// Interfaces returns the additional interfaces, sorted by identifier.
	Interfaces() []reflect.Type
	// FieldNames returns the extra field names in sorted order.
	FieldNames() []string
	// FieldVisibility reports the visibility of an extra field.
	FieldVisibility(name string) (Visibility, bool)
}

// Type is a synthesized proxy type: the shape shared by every instance
// built from specs with the same fingerprint.
type Type interface {
	// Name is the type name, equal to the fingerprint it was built for.
	Name() string
	// Base is the normalized (non-pointer) base type.
	Base() reflect.Type
	// Methods returns the overridden method names in sorted order.
	Methods() []string
	// Mode reports how name is overridden, if at all.
	Mode(name string) (MethodMode, bool)
	// Interfaces returns the declared additional interfaces.
	Interfaces() []reflect.Type
	// Fields returns the extra field names in sorted order.
	Fields() []string
	// FieldVisibility reports the visibility of an extra field.
	FieldVisibility(name string) (Visibility, bool)
	// Implements reports whether instances provide every method of iface.
	Implements(iface reflect.Type) bool
	// Method returns the base implementation of name bound to recv, which
	// must be a pointer to the base type. strict turns off numeric
	// conversion of arguments.
	Method(recv reflect.Value, name string, strict bool) (Next, bool)
	// New constructs a base value (a pointer to Base()) from args, with the
	// same argument rules as Method.
	New(args []any, strict bool) (reflect.Value, error)
}

// Synthesizer produces proxy types from specs.
type Synthesizer interface {
	// Synthesize builds the type named name for s. It fails with
	// ErrSynthesisUnsupported when the base type cannot be proxied as asked.
	Synthesize(name string, s Spec) (Type, error)
}
